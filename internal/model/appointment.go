package model

import (
	"fmt"
	"time"
)

// Appointment type constants.
const (
	AppointmentCheckup    = "checkup"
	AppointmentVaccine    = "vaccine"
	AppointmentSpecialist = "specialist"
	AppointmentOther      = "other"
)

// Appointment records a scheduled medical visit.
type Appointment struct {
	ID        int64     `json:"id" db:"id"`
	Time      time.Time `json:"time" db:"time"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Location  string    `json:"location" db:"location"`
	Notes     string    `json:"notes" db:"notes"`
	Completed bool      `json:"completed" db:"completed"`

	Timestamp int64     `json:"timestamp" db:"timestamp"`
	Date      string    `json:"date" db:"date"`
	YearMonth string    `json:"year_month" db:"year_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate requires a title and a time.
func (a Appointment) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("appointment title must not be empty")
	}
	if a.Time.IsZero() {
		return fmt.Errorf("appointment time must be set")
	}
	return nil
}

// AppointmentPatch updates selected fields of a stored appointment.
type AppointmentPatch struct {
	Time      *time.Time
	Type      *string
	Title     *string
	Location  *string
	Notes     *string
	Completed *bool
}
