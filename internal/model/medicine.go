package model

import (
	"fmt"
	"time"
)

// Medicine records a dose given to the baby. IntervalHours of zero means
// an occasional medicine with no schedule; a positive interval drives the
// NextDose reminder. A dose-taken transition writes a history record with
// IntervalHours zero and Active false.
type Medicine struct {
	ID            int64      `json:"id" db:"id"`
	Time          time.Time  `json:"time" db:"time"`
	Name          string     `json:"name" db:"name"`
	Dose          string     `json:"dose" db:"dose"`
	IntervalHours float64    `json:"interval_hours" db:"interval_hours"`
	Notes         string     `json:"notes" db:"notes"`
	Active        bool       `json:"active" db:"active"`
	NextDose      *time.Time `json:"next_dose,omitempty" db:"next_dose"`
	Timezone      string     `json:"timezone" db:"timezone"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the scheduling field invariants.
func (m Medicine) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("medicine name must not be empty")
	}
	if m.IntervalHours < 0 {
		return fmt.Errorf("medicine interval must not be negative, got %v", m.IntervalHours)
	}
	if m.Time.IsZero() {
		return fmt.Errorf("medicine time must be set")
	}
	return nil
}

// MedicinePatch updates selected fields of a stored medicine.
// ClearNextDose distinguishes clearing the reminder from leaving it alone.
type MedicinePatch struct {
	Time          *time.Time
	Name          *string
	Dose          *string
	IntervalHours *float64
	Notes         *string
	Active        *bool
	NextDose      *time.Time
	ClearNextDose bool
}
