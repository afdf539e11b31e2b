package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/auth"
	"github.com/spec-kit/image-platform/internal/config"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/events"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// TokenPair bundles the access/refresh tokens returned by auth flows.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService coordinates registration, login, and token lifecycle flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoked    *auth.RevocationList
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, revoked *auth.RevocationList, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users: users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, auth.TokenTTLs{
			Access:        cfg.AccessTTL(),
			Refresh:       cfg.RefreshTTL(),
			PasswordReset: cfg.PasswordResetTTL(),
			EmailVerify:   cfg.EmailVerifyTTL(),
		}),
		revoked:    revoked,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account and returns it with a fresh token pair. An
// email verification token is issued and handed to the notification pipeline.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, *TokenPair, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, nil, apperrors.NewStorageUnavailable(err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, nil, apperrors.NewConflict("username already taken", nil)
	} else if err != pgx.ErrNoRows {
		return nil, nil, apperrors.NewStorageUnavailable(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Plan:         domain.PlanFree,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.NewStorageUnavailable(err)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	verifyToken, _, err := s.tokenMgr.Issue(user.Email, domain.TokenTypeEmailVerify)
	if err != nil {
		return nil, nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload: events.UserRegisteredPayload{
			Email:             user.Email,
			Username:          user.Username,
			VerificationToken: verifyToken,
		},
	})

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))
	return user, pair, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewAuthenticationFailed("invalid email or password")
		}
		return nil, nil, apperrors.NewStorageUnavailable(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewAuthenticationFailed("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewAccountDisabled()
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh trades a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	claims, err := s.tokenMgr.Verify(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, nil, err
	}
	if s.revoked.IsRevoked(ctx, claims.ID) {
		return nil, nil, apperrors.NewInvalidToken("token revoked")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewAuthenticationFailed("user not found")
		}
		return nil, nil, apperrors.NewStorageUnavailable(err)
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewAccountDisabled()
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the presented access token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// RequestPasswordReset issues a stateless reset token for the account, if one
// exists. Unknown emails return an empty token without error so the endpoint
// does not reveal which addresses are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", apperrors.NewStorageUnavailable(err)
	}

	token, _, err := s.tokenMgr.Issue(user.Email, domain.TokenTypePasswordReset)
	if err != nil {
		return "", err
	}
	s.logger.Info("password reset requested", zap.String("user_id", user.ID))
	return token, nil
}

// ResetPassword validates the reset token and updates the password. An invalid
// token is a soft outcome here, reported as a token failure, not an auth one.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	email, ok := s.tokenMgr.VerifySoft(tokenStr, domain.TokenTypePasswordReset)
	if !ok {
		return apperrors.NewInvalidToken("invalid or expired reset token")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewInvalidToken("invalid or expired reset token")
		}
		return apperrors.NewStorageUnavailable(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

// VerifyEmail validates the verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenStr string) error {
	email, ok := s.tokenMgr.VerifySoft(tokenStr, domain.TokenTypeEmailVerify)
	if !ok {
		return apperrors.NewInvalidToken("invalid or expired verification token")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewInvalidToken("invalid or expired verification token")
		}
		return apperrors.NewStorageUnavailable(err)
	}
	if user.IsVerified {
		return nil
	}

	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}

	s.logger.Info("email verified", zap.String("user_id", user.ID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issuePair(userID string) (*TokenPair, error) {
	access, meta, err := s.tokenMgr.Issue(userID, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokenMgr.Issue(userID, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: meta.ExpiresAt}, nil
}
