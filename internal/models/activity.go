package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity represents a single logged time entry. Activities are immutable
// once created; the only mutation is deletion by the owner.
type Activity struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Category  string    `json:"category"` // lowercased category name
	Duration  int       `json:"duration"` // minutes, >= 1
	Date      string    `json:"date"`     // calendar day as "YYYY-MM-DD", timezone-agnostic
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	// MinActivityDuration is the minimum duration in minutes
	MinActivityDuration = 1
	// MaxActivityNotesLength is the maximum length for activity notes
	MaxActivityNotesLength = 500
)

// DateLayout is the calendar-day format used for activity dates.
const DateLayout = "2006-01-02"
