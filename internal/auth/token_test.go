package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/image-platform/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", TokenTTLs{})
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	tm := newTestManager()
	types := []domain.TokenType{
		domain.TokenTypeAccess,
		domain.TokenTypeRefresh,
		domain.TokenTypePasswordReset,
		domain.TokenTypeEmailVerify,
	}

	for _, typ := range types {
		tok, meta, err := tm.Issue("user-123", typ)
		if err != nil {
			t.Fatalf("Issue(%s) error: %v", typ, err)
		}
		if meta.Subject != "user-123" || meta.Type != typ {
			t.Fatalf("unexpected metadata: %+v", meta)
		}

		subject, err := tm.VerifySubject(tok, typ)
		if err != nil {
			t.Fatalf("VerifySubject(%s) error: %v", typ, err)
		}
		if subject != "user-123" {
			t.Fatalf("subject mismatch: got %q want %q", subject, "user-123")
		}
	}
}

func TestVerify_TypeIsolation(t *testing.T) {
	t.Parallel()

	tm := newTestManager()
	tok, _, err := tm.Issue("user-1", domain.TokenTypeRefresh)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := tm.VerifySubject(tok, domain.TokenTypeAccess); err == nil {
		t.Fatalf("expected error verifying refresh token as access, got nil")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tm := newTestManager()
	tok, _, err := tm.IssueWithTTL("user-1", domain.TokenTypeAccess, -1*time.Second)
	if err != nil {
		t.Fatalf("IssueWithTTL error: %v", err)
	}

	if _, err := tm.VerifySubject(tok, domain.TokenTypeAccess); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tm := newTestManager().WithClock(func() time.Time { return now })

	tok, _, err := tm.IssueWithTTL("user-1", domain.TokenTypeAccess, time.Hour)
	if err != nil {
		t.Fatalf("IssueWithTTL error: %v", err)
	}

	if _, err := tm.VerifySubject(tok, domain.TokenTypeAccess); err != nil {
		t.Fatalf("VerifySubject before expiry: %v", err)
	}

	tm.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	if _, err := tm.VerifySubject(tok, domain.TokenTypeAccess); err == nil {
		t.Fatalf("expected error after expiry, got nil")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewTokenManager("right-secret", TokenTTLs{}).Issue("u2", domain.TokenTypeAccess)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other := NewTokenManager("wrong-secret", TokenTTLs{})
	if _, err := other.VerifySubject(tok, domain.TokenTypeAccess); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	tm := newTestManager()
	if _, err := tm.VerifySubject("not.a.jwt", domain.TokenTypeAccess); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestVerifySoft_ValidAndInvalid(t *testing.T) {
	t.Parallel()

	tm := newTestManager()
	tok, _, err := tm.Issue("user@example.com", domain.TokenTypePasswordReset)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, ok := tm.VerifySoft(tok, domain.TokenTypePasswordReset)
	if !ok || subject != "user@example.com" {
		t.Fatalf("VerifySoft valid token: got (%q, %v)", subject, ok)
	}

	// wrong type is a soft invalid, not an error
	if _, ok := tm.VerifySoft(tok, domain.TokenTypeEmailVerify); ok {
		t.Fatalf("expected soft failure for wrong token type")
	}

	expired, _, err := tm.IssueWithTTL("user@example.com", domain.TokenTypePasswordReset, -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL error: %v", err)
	}
	if _, ok := tm.VerifySoft(expired, domain.TokenTypePasswordReset); ok {
		t.Fatalf("expected soft failure for expired token")
	}
}
