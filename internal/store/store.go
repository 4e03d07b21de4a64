package store

import (
	"context"
	"errors"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// Sentinel errors for the storage taxonomy. Callers test with errors.Is.
var (
	// ErrStorageUnavailable means the backend could not be opened at all.
	// At startup this triggers the fallback to the flat store.
	ErrStorageUnavailable = errors.New("storage backend unavailable")

	// ErrNotFound is returned by get/update on a missing id.
	ErrNotFound = errors.New("record not found")

	// ErrWrite tags an I/O failure during add/update/delete. The caller
	// must not assume partial success.
	ErrWrite = errors.New("write failed")
)

// QueryOptions controls range filtering, ordering, and truncation for
// collection queries. The most selective index available is used:
// timestamp range, then exact date, then exact year-month, then a full
// scan. Results are newest-first unless Ascending is set.
type QueryOptions struct {
	StartDate *time.Time
	EndDate   *time.Time
	Date      *string // exact "YYYY-MM-DD" match
	YearMonth *string // exact "YYYY-MM" match
	Ascending bool
	Limit     int
}

// FeedingFilter adds the feeding discriminant to QueryOptions.
type FeedingFilter struct {
	QueryOptions
	Type *string // "bottle" or "breast"
}

// DiaperFilter adds the diaper discriminants to QueryOptions.
type DiaperFilter struct {
	QueryOptions
	HasPee  *bool
	HasPoop *bool
}

// MedicineFilter adds the medicine discriminant to QueryOptions.
type MedicineFilter struct {
	QueryOptions
	Active *bool
}

// AppointmentFilter adds the appointment discriminants to QueryOptions.
type AppointmentFilter struct {
	QueryOptions
	Type      *string
	Completed *bool
}

// JournalFilter adds the journal discriminant to QueryOptions.
type JournalFilter struct {
	QueryOptions
	Category *string
}

// Store defines the persistence interface for all tracked collections
// plus the metadata key-value surface.
type Store interface {
	// === Feedings ===

	AddFeeding(ctx context.Context, f model.Feeding) (int64, error)
	GetFeeding(ctx context.Context, id int64) (*model.Feeding, error)
	GetFeedings(ctx context.Context, filter FeedingFilter) ([]model.Feeding, error)
	UpdateFeeding(ctx context.Context, id int64, patch model.FeedingPatch) error
	DeleteFeeding(ctx context.Context, id int64) error

	// === Diapers ===

	AddDiaper(ctx context.Context, d model.Diaper) (int64, error)
	GetDiaper(ctx context.Context, id int64) (*model.Diaper, error)
	GetDiapers(ctx context.Context, filter DiaperFilter) ([]model.Diaper, error)
	UpdateDiaper(ctx context.Context, id int64, patch model.DiaperPatch) error
	DeleteDiaper(ctx context.Context, id int64) error

	// === Measurements ===

	AddMeasurement(ctx context.Context, m model.Measurement) (int64, error)
	GetMeasurement(ctx context.Context, id int64) (*model.Measurement, error)
	GetMeasurements(ctx context.Context, opts QueryOptions) ([]model.Measurement, error)
	UpdateMeasurement(ctx context.Context, id int64, patch model.MeasurementPatch) error
	DeleteMeasurement(ctx context.Context, id int64) error

	// === Medicines ===

	AddMedicine(ctx context.Context, m model.Medicine) (int64, error)
	GetMedicine(ctx context.Context, id int64) (*model.Medicine, error)
	GetMedicines(ctx context.Context, filter MedicineFilter) ([]model.Medicine, error)
	UpdateMedicine(ctx context.Context, id int64, patch model.MedicinePatch) error
	DeleteMedicine(ctx context.Context, id int64) error

	// === Temperatures ===

	AddTemperature(ctx context.Context, t model.Temperature) (int64, error)
	GetTemperature(ctx context.Context, id int64) (*model.Temperature, error)
	GetTemperatures(ctx context.Context, opts QueryOptions) ([]model.Temperature, error)
	UpdateTemperature(ctx context.Context, id int64, patch model.TemperaturePatch) error
	DeleteTemperature(ctx context.Context, id int64) error

	// === Appointments ===

	AddAppointment(ctx context.Context, a model.Appointment) (int64, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	GetAppointments(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, patch model.AppointmentPatch) error
	DeleteAppointment(ctx context.Context, id int64) error

	// === Journal ===

	AddJournalEntry(ctx context.Context, j model.JournalEntry) (int64, error)
	GetJournalEntry(ctx context.Context, id int64) (*model.JournalEntry, error)
	GetJournalEntries(ctx context.Context, filter JournalFilter) ([]model.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, id int64, patch model.JournalPatch) error
	DeleteJournalEntry(ctx context.Context, id int64) error

	// === Metadata ===

	SetMetadata(ctx context.Context, key string, value any) error
	GetMetadata(ctx context.Context, key string, dest any) (bool, error)

	// === Maintenance ===

	Clear(ctx context.Context, collection string) error
	ClearAll(ctx context.Context) error
	Close() error
}
