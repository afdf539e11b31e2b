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

// ConfigsHandler exposes provider configuration CRUD.
type ConfigsHandler struct {
	configs *service.APIConfigService
}

// NewConfigsHandler constructs handler.
func NewConfigsHandler(configService *service.APIConfigService) *ConfigsHandler {
	return &ConfigsHandler{configs: configService}
}

// List handles GET /api/v1/configs.
func (h *ConfigsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	configs, err := h.configs.List(c.Context(), user)
	if err != nil {
		return err
	}

	items := make([]dto.APIConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		items = append(items, dto.NewAPIConfigResponse(cfg))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/v1/configs/:id.
func (h *ConfigsHandler) Get(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	cfg, err := h.configs.Get(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAPIConfigResponse(cfg)})
}

// Create handles POST /api/v1/configs.
func (h *ConfigsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	req, err := parseConfigRequest(c)
	if err != nil {
		return err
	}

	created, err := h.configs.Create(c.Context(), user, req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAPIConfigResponse(created)})
}

// Update handles PUT /api/v1/configs/:id.
func (h *ConfigsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	req, err := parseConfigRequest(c)
	if err != nil {
		return err
	}
	req.ID = c.Params("id")

	updated, err := h.configs.Update(c.Context(), user, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAPIConfigResponse(updated)})
}

// Delete handles DELETE /api/v1/configs/:id.
func (h *ConfigsHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("authentication required")
	}

	if err := h.configs.Delete(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "deleted"}})
}

func parseConfigRequest(c *fiber.Ctx) (*domain.APIConfig, error) {
	var req dto.APIConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Provider == "" || req.BaseURL == "" || req.APIKey == "" || req.Model == "" {
		return nil, apperrors.NewValidationError("name, provider, base_url, api_key, model required", nil)
	}

	typ := domain.APIType(req.Type)
	if typ != domain.APITypeText && typ != domain.APITypeImage {
		return nil, apperrors.NewValidationError("type must be text or image", nil)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return &domain.APIConfig{
		Name:     req.Name,
		Type:     typ,
		Provider: req.Provider,
		BaseURL:  req.BaseURL,
		APIKey:   req.APIKey,
		Model:    req.Model,
		IsActive: active,
	}, nil
}
