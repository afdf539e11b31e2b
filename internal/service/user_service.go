package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/auth"
	"github.com/spec-kit/image-platform/internal/credits"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// ProfileUpdate carries optional profile fields to change.
type ProfileUpdate struct {
	Username  *string
	AvatarURL *string
	Bio       *string
}

// UserService handles profile and usage operations.
type UserService struct {
	users      repository.UserRepository
	ledger     *credits.Ledger
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, ledger *credits.Ledger, logger *zap.Logger, bcryptCost int) *UserService {
	return &UserService{users: users, ledger: ledger, logger: logger, bcryptCost: bcryptCost}
}

// UpdateProfile applies profile changes, guarding username uniqueness.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, update ProfileUpdate) (*domain.User, error) {
	if update.Username != nil && *update.Username != user.Username {
		existing, err := s.users.GetByUsername(ctx, *update.Username)
		if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.NewStorageUnavailable(err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, apperrors.NewConflict("username already taken", nil)
		}
		user.Username = *update.Username
	}
	if update.AvatarURL != nil {
		user.AvatarURL = update.AvatarURL
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}

	s.logger.Info("profile updated", zap.String("user_id", user.ID))
	return user, nil
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewAuthenticationFailed("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}

// Usage reports the user's current credit state from a fresh read.
func (s *UserService) Usage(ctx context.Context, userID string) (credits.Usage, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return credits.Usage{}, apperrors.NewNotFound("user", nil)
		}
		return credits.Usage{}, apperrors.NewStorageUnavailable(err)
	}
	return s.ledger.Usage(user), nil
}
