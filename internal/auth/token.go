package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/image-platform/internal/domain"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// TokenTTLs configures the lifetime of each token type.
type TokenTTLs struct {
	Access        time.Duration
	Refresh       time.Duration
	PasswordReset time.Duration
	EmailVerify   time.Duration
}

// TokenManager issues and validates signed, typed, expiring tokens. Issuance
// is stateless: nothing is recorded server-side, and verification is the one
// trust boundary every caller must pass a token through before using its
// subject.
type TokenManager struct {
	secret []byte
	ttls   TokenTTLs
	now    func() time.Time
}

// NewTokenManager builds a manager around a process-wide secret.
func NewTokenManager(secret string, ttls TokenTTLs) *TokenManager {
	if ttls.Access <= 0 {
		ttls.Access = 8 * 24 * time.Hour
	}
	if ttls.Refresh <= 0 {
		ttls.Refresh = 30 * 24 * time.Hour
	}
	if ttls.PasswordReset <= 0 {
		ttls.PasswordReset = time.Hour
	}
	if ttls.EmailVerify <= 0 {
		ttls.EmailVerify = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttls: ttls, now: time.Now}
}

// WithClock overrides the time source; used by tests to exercise expiry.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// Claims describes the JWT payload.
type Claims struct {
	TokenType domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) ttlFor(typ domain.TokenType) time.Duration {
	switch typ {
	case domain.TokenTypeRefresh:
		return tm.ttls.Refresh
	case domain.TokenTypePasswordReset:
		return tm.ttls.PasswordReset
	case domain.TokenTypeEmailVerify:
		return tm.ttls.EmailVerify
	default:
		return tm.ttls.Access
	}
}

// Issue builds and signs a token of the given type with its configured TTL.
func (tm *TokenManager) Issue(subject string, typ domain.TokenType) (string, *domain.Token, error) {
	return tm.IssueWithTTL(subject, typ, tm.ttlFor(typ))
}

// IssueWithTTL builds and signs a token with an explicit TTL.
func (tm *TokenManager) IssueWithTTL(subject string, typ domain.TokenType, ttl time.Duration) (string, *domain.Token, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(ttl)
	jti := uuid.NewString()

	claims := &Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, &domain.Token{
		ID:        jti,
		Subject:   subject,
		Type:      typ,
		ExpiresAt: expiresAt,
		IssuedAt:  issuedAt,
	}, nil
}

// Verify validates signature, time window, and token type, returning the
// parsed claims. Any failure surfaces as InvalidToken.
func (tm *TokenManager) Verify(tokenStr string, expected domain.TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, apperrors.NewInvalidToken("invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewInvalidToken("invalid token claims")
	}
	if claims.TokenType != expected {
		return nil, apperrors.NewInvalidToken("invalid token type")
	}
	if claims.Subject == "" {
		return nil, apperrors.NewInvalidToken("invalid token payload")
	}
	return claims, nil
}

// VerifySubject validates the token and returns its subject.
func (tm *TokenManager) VerifySubject(tokenStr string, expected domain.TokenType) (string, error) {
	claims, err := tm.Verify(tokenStr, expected)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifySoft validates a single-purpose token (password reset, email
// verification) and reports invalidity as a typed outcome rather than an
// error: those flows treat a bad token as "not applicable".
func (tm *TokenManager) VerifySoft(tokenStr string, expected domain.TokenType) (subject string, ok bool) {
	claims, err := tm.Verify(tokenStr, expected)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}
