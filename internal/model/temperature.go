package model

import (
	"fmt"
	"time"
)

// Temperature records a body temperature reading in degrees Celsius.
type Temperature struct {
	ID    int64     `json:"id" db:"id"`
	Time  time.Time `json:"time" db:"time"`
	Value float64   `json:"value" db:"value"`
	Notes string    `json:"notes" db:"notes"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate rejects readings without a time or with an implausible value.
func (t Temperature) Validate() error {
	if t.Time.IsZero() {
		return fmt.Errorf("temperature time must be set")
	}
	if t.Value < 25 || t.Value > 45 {
		return fmt.Errorf("temperature %v°C is out of range", t.Value)
	}
	return nil
}

// TemperaturePatch updates selected fields of a stored temperature reading.
type TemperaturePatch struct {
	Time  *time.Time
	Value *float64
	Notes *string
}
