package model

import (
	"fmt"
	"time"
)

// Measurement records a growth measurement. Weight is in kilograms and
// Height in centimeters; at least one must be present.
type Measurement struct {
	ID     int64     `json:"id" db:"id"`
	Time   time.Time `json:"time" db:"time"`
	Weight *float64  `json:"weight,omitempty" db:"weight"`
	Height *float64  `json:"height,omitempty" db:"height"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate requires at least one of weight and height.
func (m Measurement) Validate() error {
	if m.Weight == nil && m.Height == nil {
		return fmt.Errorf("measurement requires a weight or a height")
	}
	if m.Time.IsZero() {
		return fmt.Errorf("measurement time must be set")
	}
	return nil
}

// MeasurementPatch updates selected fields of a stored measurement.
type MeasurementPatch struct {
	Time   *time.Time
	Weight *float64
	Height *float64
}
