package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/image-platform/internal/api/dto"
	"github.com/spec-kit/image-platform/internal/auth"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/service"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// GenerationsHandler exposes generation request and history endpoints.
type GenerationsHandler struct {
	generations *service.GenerationService
}

// NewGenerationsHandler constructs handler.
func NewGenerationsHandler(generationService *service.GenerationService) *GenerationsHandler {
	return &GenerationsHandler{generations: generationService}
}

// Create handles POST /api/v1/generations.
func (h *GenerationsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	var req dto.CreateGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Quality == "" {
		req.Quality = string(domain.QualityNormal)
	}
	if req.Ratio == "" {
		req.Ratio = "1:1"
	}

	rec, err := h.generations.Create(c.Context(), user, service.GenerationRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		StyleTags:      req.StyleTags,
		Ratio:          req.Ratio,
		Quality:        domain.ImageQuality(req.Quality),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dto.NewGenerationResponse(rec)})
}

// List handles GET /api/v1/generations.
func (h *GenerationsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	records, err := h.generations.List(c.Context(), user, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	items := make([]dto.GenerationResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.NewGenerationResponse(rec))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/v1/generations/:id.
func (h *GenerationsHandler) Get(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	rec, err := h.generations.Get(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGenerationResponse(rec)})
}
