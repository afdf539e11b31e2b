package domain

import "time"

// APIType distinguishes text vs image provider configurations.
type APIType string

const (
	APITypeText  APIType = "text"
	APITypeImage APIType = "image"
)

// APIConfig is a per-user provider credential record.
type APIConfig struct {
	ID       string
	UserID   string
	Name     string
	Type     APIType
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
