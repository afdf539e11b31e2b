package domain

import "time"

// ImageQuality enumerates supported output qualities.
type ImageQuality string

const (
	QualityNormal ImageQuality = "normal"
	Quality2K     ImageQuality = "2K"
	Quality4K     ImageQuality = "4K"
)

// GeneratedImage is a stored generation result.
type GeneratedImage struct {
	ID           string
	UserID       string
	APIConfigID  string
	URL          string
	ThumbnailURL *string
	Filename     string
	FileSize     int64

	Prompt         string
	NegativePrompt *string
	StyleTags      []string
	Ratio          string
	Quality        ImageQuality

	GenerationTime int
	ModelUsed      string
	ProviderUsed   string

	IsPublic  bool
	Likes     int
	Downloads int

	CreatedAt time.Time
	UpdatedAt time.Time
}
