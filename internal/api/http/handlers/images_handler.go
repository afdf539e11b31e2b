package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/image-platform/internal/api/dto"
	"github.com/spec-kit/image-platform/internal/auth"
	"github.com/spec-kit/image-platform/internal/service"
)

// ImagesHandler exposes the public gallery. Routes behind it use optional
// auth: anonymous callers see public images only.
type ImagesHandler struct {
	images *service.ImageService
}

// NewImagesHandler constructs handler.
func NewImagesHandler(imageService *service.ImageService) *ImagesHandler {
	return &ImagesHandler{images: imageService}
}

// List handles GET /api/v1/images.
func (h *ImagesHandler) List(c *fiber.Ctx) error {
	viewer, _ := auth.UserFromContext(c)

	images, err := h.images.Gallery(c.Context(), viewer, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	items := make([]dto.ImageResponse, 0, len(images))
	for _, img := range images {
		items = append(items, dto.NewImageResponse(img))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/v1/images/:id.
func (h *ImagesHandler) Get(c *fiber.Ctx) error {
	viewer, _ := auth.UserFromContext(c)

	img, err := h.images.Get(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewImageResponse(img)})
}

// Like handles POST /api/v1/images/:id/like.
func (h *ImagesHandler) Like(c *fiber.Ctx) error {
	viewer, _ := auth.UserFromContext(c)

	if err := h.images.Like(c.Context(), viewer, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "liked"}})
}

// Download handles POST /api/v1/images/:id/download.
func (h *ImagesHandler) Download(c *fiber.Ctx) error {
	viewer, _ := auth.UserFromContext(c)

	if err := h.images.Download(c.Context(), viewer, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "recorded"}})
}
