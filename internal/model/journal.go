package model

import (
	"fmt"
	"time"
)

// Journal category constants.
const (
	JournalMilestone = "milestone"
	JournalHealth    = "health"
	JournalNote      = "note"
)

// JournalEntry is a free-form dated note with a category and tags.
type JournalEntry struct {
	ID          int64     `json:"id" db:"id"`
	Time        time.Time `json:"time" db:"time"`
	Category    string    `json:"category" db:"category"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`

	// Tags is stored as a JSON array in both backends.
	Tags []string `json:"tags,omitempty" db:"-"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate requires a title and a time.
func (j JournalEntry) Validate() error {
	if j.Title == "" {
		return fmt.Errorf("journal title must not be empty")
	}
	if j.Time.IsZero() {
		return fmt.Errorf("journal time must be set")
	}
	return nil
}

// JournalPatch updates selected fields of a stored journal entry.
type JournalPatch struct {
	Time        *time.Time
	Category    *string
	Title       *string
	Description *string
	Tags        []string
}
