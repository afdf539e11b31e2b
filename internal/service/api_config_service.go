package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// APIConfigService handles per-user provider configuration CRUD.
type APIConfigService struct {
	configs         repository.APIConfigRepository
	logger          *zap.Logger
	freeConfigLimit int
}

// NewAPIConfigService builds the service.
func NewAPIConfigService(configs repository.APIConfigRepository, logger *zap.Logger, freeConfigLimit int) *APIConfigService {
	return &APIConfigService{configs: configs, logger: logger, freeConfigLimit: freeConfigLimit}
}

// Create stores a new provider configuration. Free-plan users are capped at
// freeConfigLimit configs; more requires at least pro.
func (s *APIConfigService) Create(ctx context.Context, user *domain.User, cfg *domain.APIConfig) (*domain.APIConfig, error) {
	if !user.Plan.AtLeast(domain.PlanPro) {
		count, err := s.configs.CountByUser(ctx, user.ID)
		if err != nil {
			return nil, apperrors.NewStorageUnavailable(err)
		}
		if count >= s.freeConfigLimit {
			return nil, apperrors.NewInsufficientPlan(string(domain.PlanPro))
		}
	}

	cfg.UserID = user.ID
	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	s.logger.Info("api config created",
		zap.String("user_id", user.ID),
		zap.String("config_id", cfg.ID),
		zap.String("provider", cfg.Provider))
	return cfg, nil
}

// Update modifies a configuration owned by the user.
func (s *APIConfigService) Update(ctx context.Context, user *domain.User, cfg *domain.APIConfig) (*domain.APIConfig, error) {
	cfg.UserID = user.ID
	if err := s.configs.Update(ctx, cfg); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("api config", nil)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return cfg, nil
}

// Delete removes a configuration owned by the user.
func (s *APIConfigService) Delete(ctx context.Context, user *domain.User, id string) error {
	if err := s.configs.Delete(ctx, id, user.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("api config", nil)
		}
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

// Get returns a configuration owned by the user.
func (s *APIConfigService) Get(ctx context.Context, user *domain.User, id string) (*domain.APIConfig, error) {
	cfg, err := s.configs.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("api config", nil)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	if cfg.UserID != user.ID {
		return nil, apperrors.NewNotFound("api config", nil)
	}
	return cfg, nil
}

// List returns the user's configurations.
func (s *APIConfigService) List(ctx context.Context, user *domain.User) ([]*domain.APIConfig, error) {
	configs, err := s.configs.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return configs, nil
}
