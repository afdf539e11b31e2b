package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// ImageService handles gallery reads and social counters.
type ImageService struct {
	images repository.ImageRepository
	logger *zap.Logger
}

// NewImageService builds the service.
func NewImageService(images repository.ImageRepository, logger *zap.Logger) *ImageService {
	return &ImageService{images: images, logger: logger}
}

// Gallery lists public images; an authenticated viewer also sees their own
// private images.
func (s *ImageService) Gallery(ctx context.Context, viewer *domain.User, limit, offset int) ([]*domain.GeneratedImage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var viewerID *string
	if viewer != nil {
		viewerID = &viewer.ID
	}

	images, err := s.images.ListGallery(ctx, viewerID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return images, nil
}

// Get returns an image visible to the viewer.
func (s *ImageService) Get(ctx context.Context, viewer *domain.User, id string) (*domain.GeneratedImage, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("image", nil)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	if !img.IsPublic && (viewer == nil || (viewer.ID != img.UserID && !viewer.IsSuperuser)) {
		return nil, apperrors.NewNotFound("image", nil)
	}
	return img, nil
}

// Like increments the like counter on a visible image.
func (s *ImageService) Like(ctx context.Context, viewer *domain.User, id string) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.images.IncrementLikes(ctx, id); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

// Download increments the download counter on a visible image.
func (s *ImageService) Download(ctx context.Context, viewer *domain.User, id string) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.images.IncrementDownloads(ctx, id); err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}
