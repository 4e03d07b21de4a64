// Package tracker owns the in-memory mirror of every collection and
// decides which storage backend is active. The UI layer only ever
// talks to the Controller; it never touches a backend directly.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/flatstore"
	"github.com/lucasgonzalez939/babytrack/internal/migrate"
	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
)

// Mode identifies the active storage backend. It is fixed for the
// lifetime of a session: a mid-session backend failure surfaces as an
// operation error, never a mode switch.
type Mode string

const (
	ModePrimary  Mode = "primary"  // SQLite record store
	ModeFallback Mode = "fallback" // flat JSON store
)

// Period restricts list queries to a rolling window.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Controller selects the backend at startup and keeps an in-memory
// mirror of every collection in sync with it. All reads are served
// from the mirror; every mutation goes to the active backend first and
// only updates the mirror from the backend's authoritative response.
type Controller struct {
	mode     Mode
	records  *store.SQLiteStore
	flat     *flatstore.FlatStore
	migrator *migrate.Service
	log      *slog.Logger

	mu           sync.Mutex
	feedings     []model.Feeding
	diapers      []model.Diaper
	measurements []model.Measurement
	medicines    []model.Medicine
	temperatures []model.Temperature
	appointments []model.Appointment
	journal      []model.JournalEntry
	settings     model.Settings
}

// New wires a controller from the application config. The SQLite store
// is attempted first; if it cannot be opened the controller runs in
// fallback mode against the flat store for the whole session.
func New(ctx context.Context, cfg *model.AppConfig, log *slog.Logger) (*Controller, error) {
	if log == nil {
		log = slog.Default()
	}

	flat, err := flatstore.New(cfg.FlatDir())
	if err != nil {
		return nil, fmt.Errorf("opening flat store: %w", err)
	}

	c := &Controller{flat: flat, log: log}

	records, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		// Backend-open failures become a mode switch, not a user error.
		log.Warn("record store unavailable, falling back to flat store", "error", err)
		c.mode = ModeFallback
		if err := c.loadFromFlat(); err != nil {
			return nil, fmt.Errorf("loading flat collections: %w", err)
		}
		c.loadSettings(ctx, cfg)
		return c, nil
	}

	c.mode = ModePrimary
	c.records = records
	c.migrator = migrate.New(records, flat, cfg.FeedingIntervalHours, cfg.Timezone, log)

	// Best effort: a failed migration is logged, never fatal.
	if result := c.migrator.Migrate(ctx); result.Status == migrate.StatusFailed {
		log.Warn("flat store migration failed", "errors", result.Errors)
	}

	if err := c.loadFromRecords(ctx); err != nil {
		records.Close()
		return nil, fmt.Errorf("loading collections: %w", err)
	}
	c.loadSettings(ctx, cfg)
	return c, nil
}

// Mode reports which backend is active.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Migrator exposes the migration service for diagnostics and rollback.
// Nil in fallback mode.
func (c *Controller) Migrator() *migrate.Service {
	return c.migrator
}

// Close releases the record store handle, if any.
func (c *Controller) Close() error {
	if c.records != nil {
		return c.records.Close()
	}
	return nil
}

// loadFromRecords fills the mirror from the SQLite store, oldest first.
func (c *Controller) loadFromRecords(ctx context.Context) error {
	asc := store.QueryOptions{Ascending: true}

	var err error
	if c.feedings, err = c.records.GetFeedings(ctx, store.FeedingFilter{QueryOptions: asc}); err != nil {
		return err
	}
	if c.diapers, err = c.records.GetDiapers(ctx, store.DiaperFilter{QueryOptions: asc}); err != nil {
		return err
	}
	if c.measurements, err = c.records.GetMeasurements(ctx, asc); err != nil {
		return err
	}
	if c.medicines, err = c.records.GetMedicines(ctx, store.MedicineFilter{QueryOptions: asc}); err != nil {
		return err
	}
	if c.temperatures, err = c.records.GetTemperatures(ctx, asc); err != nil {
		return err
	}
	if c.appointments, err = c.records.GetAppointments(ctx, store.AppointmentFilter{QueryOptions: asc}); err != nil {
		return err
	}
	if c.journal, err = c.records.GetJournalEntries(ctx, store.JournalFilter{QueryOptions: asc}); err != nil {
		return err
	}
	return nil
}

// loadFromFlat fills the mirror from the flat store.
func (c *Controller) loadFromFlat() error {
	if err := c.flat.Load(model.CollectionFeedings, &c.feedings); err != nil {
		return err
	}
	if err := c.flat.Load(model.CollectionDiapers, &c.diapers); err != nil {
		return err
	}
	if err := c.flat.Load(model.CollectionMeasurements, &c.measurements); err != nil {
		return err
	}
	if err := c.flat.Load(model.CollectionMedicines, &c.medicines); err != nil {
		return err
	}
	if err := c.flat.Load(model.CollectionTemperatures, &c.temperatures); err != nil {
		return err
	}
	if err := c.flat.Load(model.CollectionAppointments, &c.appointments); err != nil {
		return err
	}
	if err := c.flat.Load(model.CollectionJournal, &c.journal); err != nil {
		return err
	}
	return nil
}

// Clear wipes one collection in the active backend and its mirror.
func (c *Controller) Clear(ctx context.Context, collection string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.Clear(ctx, collection); err != nil {
			return err
		}
	} else {
		if !validCollection(collection) {
			return fmt.Errorf("unknown collection %q", collection)
		}
		if err := c.flat.Remove(collection); err != nil {
			return err
		}
	}

	switch collection {
	case model.CollectionFeedings:
		c.feedings = nil
	case model.CollectionDiapers:
		c.diapers = nil
	case model.CollectionMeasurements:
		c.measurements = nil
	case model.CollectionMedicines:
		c.medicines = nil
	case model.CollectionTemperatures:
		c.temperatures = nil
	case model.CollectionAppointments:
		c.appointments = nil
	case model.CollectionJournal:
		c.journal = nil
	}
	return nil
}

func validCollection(collection string) bool {
	for _, name := range model.Collections {
		if name == collection {
			return true
		}
	}
	return false
}

// ClearAll wipes every collection in the active backend and empties
// the mirror.
func (c *Controller) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModePrimary {
		if err := c.records.ClearAll(ctx); err != nil {
			return err
		}
	} else {
		for _, collection := range model.Collections {
			if err := c.flat.Remove(collection); err != nil {
				return err
			}
		}
	}

	c.feedings = nil
	c.diapers = nil
	c.measurements = nil
	c.medicines = nil
	c.temperatures = nil
	c.appointments = nil
	c.journal = nil
	return nil
}

// periodStart returns the inclusive lower bound for a period, or nil
// for PeriodAll. Bounds are computed in UTC, matching the derived
// date keys the stores index on.
func periodStart(p Period, now time.Time) *time.Time {
	u := now.UTC()
	var start time.Time
	switch p {
	case PeriodToday:
		start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		start = u.AddDate(0, 0, -7)
	case PeriodMonth:
		start = time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil
	}
	return &start
}

// inPeriod reports whether t falls inside the period ending now.
func inPeriod(t time.Time, p Period, now time.Time) bool {
	start := periodStart(p, now)
	return start == nil || !t.UTC().Before(*start)
}

// resave writes one whole collection back to the flat store. Fallback
// mode has no partial-write primitive, so every mutation funnels
// through here before the mirror is touched.
func (c *Controller) resave(collection string, records any) error {
	if err := c.flat.Save(collection, records); err != nil {
		return fmt.Errorf("resaving %s: %w", collection, err)
	}
	return nil
}
