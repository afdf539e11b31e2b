package domain

import "time"

// TokenType scopes a bearer token to a single purpose.
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypePasswordReset TokenType = "password_reset"
	TokenTypeEmailVerify   TokenType = "email_verification"
)

// Token carries issued token metadata back to callers; tokens themselves are
// never persisted.
type Token struct {
	ID        string
	Subject   string
	Type      TokenType
	ExpiresAt time.Time
	IssuedAt  time.Time
}
