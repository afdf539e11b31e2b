package domain

import "time"

// TagType marks a style tag as a positive or negative prompt fragment.
type TagType string

const (
	TagTypePositive TagType = "positive"
	TagTypeNegative TagType = "negative"
)

// StyleTag is a curated prompt fragment users can attach to generations.
type StyleTag struct {
	ID              string
	Name            string
	Category        string
	Type            TagType
	Description     *string
	Popularity      int
	CreatedBySystem bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
