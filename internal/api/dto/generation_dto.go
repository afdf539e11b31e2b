package dto

import (
	"time"

	"github.com/spec-kit/image-platform/internal/domain"
)

// CreateGenerationRequest payload for a generation call.
type CreateGenerationRequest struct {
	Prompt         string   `json:"prompt"`
	NegativePrompt *string  `json:"negative_prompt"`
	StyleTags      []string `json:"style_tags"`
	Ratio          string   `json:"ratio"`
	Quality        string   `json:"quality"`
}

// GenerationResponse is the public shape of a history entry.
type GenerationResponse struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	CreditsUsed    int       `json:"credits_used"`
	Prompt         string    `json:"prompt"`
	NegativePrompt *string   `json:"negative_prompt,omitempty"`
	StyleTags      []string  `json:"style_tags,omitempty"`
	Ratio          string    `json:"ratio"`
	Quality        string    `json:"quality"`
	ImageID        *string   `json:"image_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewGenerationResponse maps a domain record.
func NewGenerationResponse(rec *domain.GenerationRecord) GenerationResponse {
	return GenerationResponse{
		ID:             rec.ID,
		Status:         string(rec.Status),
		ErrorMessage:   rec.ErrorMessage,
		CreditsUsed:    rec.CreditsUsed,
		Prompt:         rec.Prompt,
		NegativePrompt: rec.NegativePrompt,
		StyleTags:      rec.StyleTags,
		Ratio:          rec.Ratio,
		Quality:        string(rec.Quality),
		ImageID:        rec.ImageID,
		CreatedAt:      rec.CreatedAt,
	}
}

// ImageResponse is the public shape of a generated image.
type ImageResponse struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Prompt       string    `json:"prompt"`
	StyleTags    []string  `json:"style_tags,omitempty"`
	Ratio        string    `json:"ratio"`
	Quality      string    `json:"quality"`
	IsPublic     bool      `json:"is_public"`
	Likes        int       `json:"likes"`
	Downloads    int       `json:"downloads"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewImageResponse maps a domain image.
func NewImageResponse(img *domain.GeneratedImage) ImageResponse {
	return ImageResponse{
		ID:           img.ID,
		URL:          img.URL,
		ThumbnailURL: img.ThumbnailURL,
		Prompt:       img.Prompt,
		StyleTags:    img.StyleTags,
		Ratio:        img.Ratio,
		Quality:      string(img.Quality),
		IsPublic:     img.IsPublic,
		Likes:        img.Likes,
		Downloads:    img.Downloads,
		CreatedAt:    img.CreatedAt,
	}
}
