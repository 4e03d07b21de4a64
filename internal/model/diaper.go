package model

import (
	"fmt"
	"time"
)

// Diaper records a single diaper change. At least one of HasPee and
// HasPoop must be true.
type Diaper struct {
	ID       int64     `json:"id" db:"id"`
	Time     time.Time `json:"time" db:"time"`
	HasPee   bool      `json:"has_pee" db:"has_pee"`
	HasPoop  bool      `json:"has_poop" db:"has_poop"`
	Level    int       `json:"level" db:"level"`
	Notes    string    `json:"notes" db:"notes"`
	Timezone string    `json:"timezone" db:"timezone"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate rejects diapers that record neither pee nor poop, and
// levels outside 1..3.
func (d Diaper) Validate() error {
	if !d.HasPee && !d.HasPoop {
		return fmt.Errorf("diaper must record pee, poop, or both")
	}
	if d.Level < 1 || d.Level > 3 {
		return fmt.Errorf("diaper level must be 1..3, got %d", d.Level)
	}
	if d.Time.IsZero() {
		return fmt.Errorf("diaper time must be set")
	}
	return nil
}

// DiaperPatch updates selected fields of a stored diaper.
type DiaperPatch struct {
	Time    *time.Time
	HasPee  *bool
	HasPoop *bool
	Level   *int
	Notes   *string
}
