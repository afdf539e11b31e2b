package events

import (
	"time"

	"github.com/spec-kit/image-platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventGenerationRequested EventType = "generation_requested"
	EventGenerationCompleted EventType = "generation_completed"
	EventGenerationFailed    EventType = "generation_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email             string `json:"email"`
	Username          string `json:"username"`
	VerificationToken string `json:"verification_token"`
}

// GenerationRequestedPayload payload.
type GenerationRequestedPayload struct {
	GenerationID string              `json:"generation_id"`
	Quality      domain.ImageQuality `json:"quality"`
	CreditsUsed  int                 `json:"credits_used"`
}

// GenerationCompletedPayload payload.
type GenerationCompletedPayload struct {
	GenerationID string `json:"generation_id"`
	ImageID      string `json:"image_id"`
}

// GenerationFailedPayload payload.
type GenerationFailedPayload struct {
	GenerationID string `json:"generation_id"`
	Reason       string `json:"reason"`
}
