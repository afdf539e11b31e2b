package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/image-platform/internal/api/dto"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/service"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// StylesHandler exposes style tag browsing and superuser-only management.
type StylesHandler struct {
	styles *service.StyleTagService
}

// NewStylesHandler constructs handler.
func NewStylesHandler(styleService *service.StyleTagService) *StylesHandler {
	return &StylesHandler{styles: styleService}
}

// List handles GET /api/v1/styles.
func (h *StylesHandler) List(c *fiber.Ctx) error {
	tags, err := h.styles.List(c.Context(), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapTags(tags)})
}

// Popular handles GET /api/v1/styles/popular.
func (h *StylesHandler) Popular(c *fiber.Ctx) error {
	tags, err := h.styles.Popular(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapTags(tags)})
}

// Create handles POST /api/v1/styles. Superuser only.
func (h *StylesHandler) Create(c *fiber.Ctx) error {
	var req dto.StyleTagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tag, err := h.styles.Create(c.Context(), &domain.StyleTag{
		Name:            req.Name,
		Category:        req.Category,
		Type:            domain.TagType(req.Type),
		Description:     req.Description,
		CreatedBySystem: false,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStyleTagResponse(tag)})
}

// Delete handles DELETE /api/v1/styles/:id. Superuser only.
func (h *StylesHandler) Delete(c *fiber.Ctx) error {
	if err := h.styles.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "deleted"}})
}

func mapTags(tags []*domain.StyleTag) []dto.StyleTagResponse {
	items := make([]dto.StyleTagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, dto.NewStyleTagResponse(tag))
	}
	return items
}
