package dto

import (
	"time"

	"github.com/spec-kit/image-platform/internal/domain"
)

// APIConfigRequest payload for creating or updating a provider configuration.
type APIConfigRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Provider string `json:"provider"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	IsActive *bool  `json:"is_active"`
}

// APIConfigResponse is the public shape of a configuration. The key is masked.
type APIConfigResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Provider  string    `json:"provider"`
	BaseURL   string    `json:"base_url"`
	Model     string    `json:"model"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAPIConfigResponse maps a domain config without exposing the key.
func NewAPIConfigResponse(cfg *domain.APIConfig) APIConfigResponse {
	return APIConfigResponse{
		ID:        cfg.ID,
		Name:      cfg.Name,
		Type:      string(cfg.Type),
		Provider:  cfg.Provider,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		IsActive:  cfg.IsActive,
		CreatedAt: cfg.CreatedAt,
	}
}
