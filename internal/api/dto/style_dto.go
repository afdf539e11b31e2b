package dto

import (
	"time"

	"github.com/spec-kit/image-platform/internal/domain"
)

// StyleTagRequest payload for creating a tag.
type StyleTagRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
}

// StyleTagResponse is the public shape of a style tag.
type StyleTagResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Description *string   `json:"description,omitempty"`
	Popularity  int       `json:"popularity"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStyleTagResponse maps a domain tag.
func NewStyleTagResponse(tag *domain.StyleTag) StyleTagResponse {
	return StyleTagResponse{
		ID:          tag.ID,
		Name:        tag.Name,
		Category:    tag.Category,
		Type:        string(tag.Type),
		Description: tag.Description,
		Popularity:  tag.Popularity,
		CreatedAt:   tag.CreatedAt,
	}
}
