package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

const userKey = "auth_user"

// Middleware validates bearer tokens and loads the authenticated user.
type Middleware struct {
	tokens  *TokenManager
	users   repository.UserRepository
	revoked *RevocationList
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, revoked *RevocationList) *Middleware {
	return &Middleware{tokens: tokens, users: users, revoked: revoked}
}

// Handle enforces authentication for protected routes. It verifies the access
// token, checks the revocation list, and resolves the subject to a user.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr, ok := bearerToken(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("missing or invalid authorization header")
	}

	claims, err := m.tokens.Verify(tokenStr, domain.TokenTypeAccess)
	if err != nil {
		return err
	}
	if m.revoked.IsRevoked(c.Context(), claims.ID) {
		return apperrors.NewInvalidToken("token revoked")
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewAuthenticationFailed("user not found")
		}
		return apperrors.NewStorageUnavailable(err)
	}

	c.Locals(userKey, user)
	c.Locals(tokenKey, claims)
	return c.Next()
}

// Optional authenticates when a valid token is presented and silently
// continues as anonymous otherwise. Routes behind it never reject anonymous
// callers for auth reasons.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	tokenStr, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}

	claims, err := m.tokens.Verify(tokenStr, domain.TokenTypeAccess)
	if err != nil || m.revoked.IsRevoked(c.Context(), claims.ID) {
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil || !user.IsActive {
		return c.Next()
	}

	c.Locals(userKey, user)
	c.Locals(tokenKey, claims)
	return c.Next()
}

const tokenKey = "auth_claims"

// UserFromContext retrieves the authenticated user, if any.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

// ClaimsFromContext retrieves the verified token claims, if any.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(tokenKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
