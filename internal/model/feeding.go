package model

import (
	"fmt"
	"time"
)

// Feeding type constants.
const (
	FeedingBottle = "bottle"
	FeedingBreast = "breast"
)

// Feeding records a single feeding event. Amount is set for bottle
// feedings, Duration for breast feedings; the two are mutually exclusive.
type Feeding struct {
	ID           int64      `json:"id" db:"id"`
	Time         time.Time  `json:"time" db:"time"`
	Type         string     `json:"type" db:"type"`
	Amount       *int       `json:"amount,omitempty" db:"amount"`
	Duration     *int       `json:"duration,omitempty" db:"duration"`
	NextInterval float64    `json:"next_interval" db:"next_interval"`
	Timezone     string     `json:"timezone" db:"timezone"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the bottle/breast field invariants.
func (f Feeding) Validate() error {
	switch f.Type {
	case FeedingBottle:
		if f.Amount == nil {
			return fmt.Errorf("bottle feeding requires an amount")
		}
		if f.Duration != nil {
			return fmt.Errorf("bottle feeding must not carry a duration")
		}
	case FeedingBreast:
		if f.Duration == nil {
			return fmt.Errorf("breast feeding requires a duration")
		}
		if f.Amount != nil {
			return fmt.Errorf("breast feeding must not carry an amount")
		}
	default:
		return fmt.Errorf("unknown feeding type %q", f.Type)
	}
	if f.NextInterval <= 0 {
		return fmt.Errorf("next feeding interval must be positive, got %v", f.NextInterval)
	}
	if f.Time.IsZero() {
		return fmt.Errorf("feeding time must be set")
	}
	return nil
}

// FeedingPatch updates selected fields of a stored feeding.
// Nil fields are left untouched.
type FeedingPatch struct {
	Time         *time.Time
	Type         *string
	Amount       *int
	Duration     *int
	NextInterval *float64
	Timezone     *string
}
