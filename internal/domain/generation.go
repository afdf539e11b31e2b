package domain

import "time"

// GenerationStatus tracks the lifecycle of a generation request.
type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationProcessing GenerationStatus = "processing"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationFailed     GenerationStatus = "failed"
)

// GenerationRecord is one entry in a user's generation history.
type GenerationRecord struct {
	ID           string
	UserID       string
	ImageID      *string
	Status       GenerationStatus
	ErrorMessage *string
	RetryCount   int
	CreditsUsed  int

	Prompt         string
	NegativePrompt *string
	StyleTags      []string
	Ratio          string
	Quality        ImageQuality

	CreatedAt time.Time
	UpdatedAt time.Time
}
