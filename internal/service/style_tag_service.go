package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// StyleTagService handles curated style tag management.
type StyleTagService struct {
	tags   repository.StyleTagRepository
	logger *zap.Logger
}

// NewStyleTagService builds the service.
func NewStyleTagService(tags repository.StyleTagRepository, logger *zap.Logger) *StyleTagService {
	return &StyleTagService{tags: tags, logger: logger}
}

// List returns tags, optionally filtered by category.
func (s *StyleTagService) List(ctx context.Context, category string) ([]*domain.StyleTag, error) {
	tags, err := s.tags.List(ctx, category)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return tags, nil
}

// Popular returns the most used tags.
func (s *StyleTagService) Popular(ctx context.Context, limit int) ([]*domain.StyleTag, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	tags, err := s.tags.ListPopular(ctx, limit)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return tags, nil
}

// Create stores a new tag; names are unique.
func (s *StyleTagService) Create(ctx context.Context, tag *domain.StyleTag) (*domain.StyleTag, error) {
	if tag.Name == "" || tag.Category == "" {
		return nil, apperrors.NewValidationError("name and category required", nil)
	}
	if tag.Type != domain.TagTypePositive && tag.Type != domain.TagTypeNegative {
		tag.Type = domain.TagTypePositive
	}

	if _, err := s.tags.GetByName(ctx, tag.Name); err == nil {
		return nil, apperrors.NewConflict("style tag already exists", map[string]any{"name": tag.Name})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	s.logger.Info("style tag created", zap.String("name", tag.Name), zap.String("category", tag.Category))
	return tag, nil
}

// Delete removes a tag.
func (s *StyleTagService) Delete(ctx context.Context, id string) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("style tag", nil)
		}
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}
