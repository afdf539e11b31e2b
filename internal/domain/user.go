package domain

import "time"

// DateLayout is the calendar-date format used for daily credit accounting.
const DateLayout = "2006-01-02"

// User is the domain model for platform accounts.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	AvatarURL    *string
	Bio          *string

	Plan        Plan
	IsActive    bool
	IsVerified  bool
	IsSuperuser bool

	// Credit accounting. TotalCreditsUsed is lifetime-cumulative and never
	// decreases. CreditsUsedToday and GenerationsToday are meaningful only
	// when LastGenerationAt equals the current UTC date; otherwise readers
	// must treat them as 0.
	TotalCreditsUsed int
	CreditsUsedToday int
	GenerationsToday int
	LastGenerationAt *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GeneratedToday reports whether the user's daily counters are current for today.
func (u *User) GeneratedToday(today string) bool {
	return u.LastGenerationAt != nil && *u.LastGenerationAt == today
}
