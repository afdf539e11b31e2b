package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/config"
	"github.com/spec-kit/image-platform/internal/credits"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/events"
	"github.com/spec-kit/image-platform/internal/repository"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// GenerationRequest carries the parameters of a generation call.
type GenerationRequest struct {
	Prompt         string
	NegativePrompt *string
	StyleTags      []string
	Ratio          string
	Quality        domain.ImageQuality
}

// GenerationService accepts generation requests: it debits the credit ledger,
// records the request in history, and hands off to the (external) provider
// pipeline via events.
type GenerationService struct {
	generations repository.GenerationRepository
	styleTags   repository.StyleTagRepository
	ledger      *credits.Ledger
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	costs       config.CreditsConfig
}

// NewGenerationService builds the service.
func NewGenerationService(
	generations repository.GenerationRepository,
	styleTags repository.StyleTagRepository,
	ledger *credits.Ledger,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	costs config.CreditsConfig,
) *GenerationService {
	return &GenerationService{
		generations: generations,
		styleTags:   styleTags,
		ledger:      ledger,
		dispatcher:  dispatcher,
		logger:      logger,
		costs:       costs,
	}
}

// CostFor returns the credit cost of a generation at the given quality.
func (s *GenerationService) CostFor(quality domain.ImageQuality) (int, error) {
	switch quality {
	case domain.QualityNormal:
		return s.costs.CostNormal, nil
	case domain.Quality2K:
		return s.costs.Cost2K, nil
	case domain.Quality4K:
		return s.costs.Cost4K, nil
	}
	return 0, apperrors.NewValidationError("unknown quality", map[string]any{"quality": string(quality)})
}

// Create debits credits and records a pending generation. The debit happens
// before anything is written; a refused debit leaves no trace.
func (s *GenerationService) Create(ctx context.Context, user *domain.User, req GenerationRequest) (*domain.GenerationRecord, error) {
	if req.Prompt == "" {
		return nil, apperrors.NewValidationError("prompt required", nil)
	}

	cost, err := s.CostFor(req.Quality)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Consume(ctx, user, cost); err != nil {
		return nil, err
	}

	rec := &domain.GenerationRecord{
		UserID:         user.ID,
		Status:         domain.GenerationPending,
		CreditsUsed:    cost,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		StyleTags:      req.StyleTags,
		Ratio:          req.Ratio,
		Quality:        req.Quality,
	}
	if err := s.generations.Create(ctx, rec); err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	if len(req.StyleTags) > 0 {
		if err := s.styleTags.BumpPopularity(ctx, req.StyleTags); err != nil {
			s.logger.Warn("failed to bump style tag popularity", zap.Error(err))
		}
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventGenerationRequested,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload: events.GenerationRequestedPayload{
			GenerationID: rec.ID,
			Quality:      req.Quality,
			CreditsUsed:  cost,
		},
	})

	s.logger.Info("generation accepted",
		zap.String("user_id", user.ID),
		zap.String("generation_id", rec.ID),
		zap.Int("credits", cost))
	return rec, nil
}

// Get returns a single history entry owned by the user.
func (s *GenerationService) Get(ctx context.Context, user *domain.User, id string) (*domain.GenerationRecord, error) {
	rec, err := s.generations.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("generation", nil)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	if rec.UserID != user.ID && !user.IsSuperuser {
		return nil, apperrors.NewNotFound("generation", nil)
	}
	return rec, nil
}

// List returns the user's generation history, newest first.
func (s *GenerationService) List(ctx context.Context, user *domain.User, limit, offset int) ([]*domain.GenerationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	records, err := s.generations.ListByUser(ctx, user.ID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return records, nil
}
