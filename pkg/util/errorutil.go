package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewAuthenticationFailed reports that no valid identity could be established.
func NewAuthenticationFailed(message string) error {
	return NewDomainError("AUTHENTICATION_FAILED", message, http.StatusUnauthorized, nil)
}

// NewInvalidToken reports a token that failed signature, type, or window checks.
func NewInvalidToken(message string) error {
	return NewDomainError("INVALID_TOKEN", message, http.StatusUnauthorized, nil)
}

// NewAccountDisabled reports an inactive account.
func NewAccountDisabled() error {
	return NewDomainError("ACCOUNT_DISABLED", "account is disabled", http.StatusForbidden, nil)
}

// NewEmailNotVerified reports an unverified account.
func NewEmailNotVerified() error {
	return NewDomainError("EMAIL_NOT_VERIFIED", "email address not verified", http.StatusForbidden, nil)
}

// NewInsufficientPlan reports a plan tier below the required one.
func NewInsufficientPlan(required string) error {
	return NewDomainError("INSUFFICIENT_PLAN",
		fmt.Sprintf("this feature requires the %s plan or higher", required),
		http.StatusForbidden, map[string]any{"required_plan": required})
}

// NewInsufficientPrivilege reports a missing superuser flag.
func NewInsufficientPrivilege() error {
	return NewDomainError("INSUFFICIENT_PRIVILEGE", "not enough permissions", http.StatusForbidden, nil)
}

// NewInsufficientCredits reports a refused ledger debit.
func NewInsufficientCredits(required, available int) error {
	return NewDomainError("INSUFFICIENT_CREDITS", "insufficient credits",
		http.StatusPaymentRequired, map[string]any{"required": required, "available": available})
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewStorageUnavailable wraps a transient infrastructure failure; callers may retry.
func NewStorageUnavailable(err error) error {
	return &DomainError{
		Code:       "STORAGE_UNAVAILABLE",
		Message:    "storage temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
