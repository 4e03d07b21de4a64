// Package migrate moves data from the flat JSON store into the SQLite
// store on first run. The transfer is one-shot and guarded by a
// persisted flag; a full backup of the flat data is taken first so the
// move can be undone.
package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lucasgonzalez939/babytrack/internal/flatstore"
	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
)

// Flat-store keys reserved by the migration itself.
const (
	flagKey   = "migrated"
	backupKey = "migration_backup"
)

// ErrNoBackup is returned by RestoreFromBackup when no backup exists.
var ErrNoBackup = errors.New("no migration backup exists")

// Status is the terminal outcome of a Migrate call.
type Status string

const (
	StatusAlreadyMigrated Status = "already_migrated"
	StatusNoData          Status = "no_data"
	StatusSuccess         Status = "success"
	StatusFailed          Status = "failed"
)

// Result reports what a Migrate call did. Counts holds the number of
// records moved per collection; Errors lists per-record failures that
// did not abort the run.
type Result struct {
	Status Status         `json:"status"`
	Counts map[string]int `json:"counts"`
	Errors []string       `json:"errors,omitempty"`
}

// State describes the migration for diagnostics.
type State struct {
	Migrated    bool       `json:"migrated"`
	HasBackup   bool       `json:"has_backup"`
	HasFlatData bool       `json:"has_flat_data"`
	BackupDate  *time.Time `json:"backup_date,omitempty"`
}

// backup is the snapshot of all flat data taken before the transfer.
type backup struct {
	ID          string                       `json:"id"`
	CreatedAt   time.Time                    `json:"created_at"`
	Collections map[string][]json.RawMessage `json:"collections"`
	Scalars     map[string]json.RawMessage   `json:"scalars"`
}

// Service performs the one-time flat-to-SQLite migration.
type Service struct {
	records *store.SQLiteStore
	flat    *flatstore.FlatStore
	log     *slog.Logger

	// defaults applied to flat records missing these fields
	defaultInterval float64
	defaultTimezone string
}

// New creates a migration service over the two backends. The interval
// and timezone defaults fill gaps in legacy flat records.
func New(records *store.SQLiteStore, flat *flatstore.FlatStore, defaultInterval float64, defaultTimezone string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if defaultInterval <= 0 {
		defaultInterval = model.DefaultFeedingIntervalHours
	}
	if defaultTimezone == "" {
		defaultTimezone = time.Local.String()
	}
	return &Service{
		records:         records,
		flat:            flat,
		log:             log,
		defaultInterval: defaultInterval,
		defaultTimezone: defaultTimezone,
	}
}

// Migrate runs the one-time transfer. Safe to call on every start:
// once the migrated flag is set, it is a no-op. The flag is only set
// after every record has been attempted, so a crash mid-transfer
// retries from scratch on the next start.
func (s *Service) Migrate(ctx context.Context) Result {
	var migrated bool
	if _, err := s.flat.GetScalar(flagKey, &migrated); err != nil {
		s.log.Error("reading migration flag", "error", err)
		return Result{Status: StatusFailed, Errors: []string{err.Error()}}
	}
	if migrated {
		return Result{Status: StatusAlreadyMigrated}
	}

	raw := s.loadFlatCollections()
	if len(raw) == 0 {
		if err := s.flat.SetScalar(flagKey, true); err != nil {
			s.log.Error("setting migration flag", "error", err)
			return Result{Status: StatusFailed, Errors: []string{err.Error()}}
		}
		return Result{Status: StatusNoData}
	}

	if err := s.createBackup(raw); err != nil {
		s.log.Error("creating migration backup", "error", err)
		return Result{Status: StatusFailed, Errors: []string{err.Error()}}
	}

	result := Result{Status: StatusSuccess, Counts: make(map[string]int)}
	for _, collection := range model.Collections {
		records, ok := raw[collection]
		if !ok {
			continue
		}
		for i, record := range records {
			if err := s.insertRecord(ctx, collection, record); err != nil {
				msg := fmt.Sprintf("%s[%d]: %v", collection, i, err)
				result.Errors = append(result.Errors, msg)
				s.log.Warn("skipping flat record", "collection", collection, "index", i, "error", err)
				continue
			}
			result.Counts[collection]++
		}
	}

	s.copySettings(ctx, &result)

	if err := s.flat.SetScalar(flagKey, true); err != nil {
		s.log.Error("setting migration flag", "error", err)
		result.Status = StatusFailed
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Backup stays; only the now-migrated raw collections go.
	for collection := range raw {
		if err := s.flat.Remove(collection); err != nil {
			result.Errors = append(result.Errors, err.Error())
			s.log.Warn("removing migrated collection", "collection", collection, "error", err)
		}
	}

	s.log.Info("flat store migration finished",
		"counts", result.Counts, "errors", len(result.Errors))
	return result
}

// RestoreFromBackup writes the backup snapshot back into the flat store
// and clears the migrated flag, for manual rollback.
func (s *Service) RestoreFromBackup() error {
	b, err := s.loadBackup()
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNoBackup
	}

	for collection, records := range b.Collections {
		if err := s.flat.Save(collection, records); err != nil {
			return fmt.Errorf("restoring collection %q: %w", collection, err)
		}
	}
	for key, value := range b.Scalars {
		if key == flagKey || key == backupKey {
			continue
		}
		if err := s.flat.SetScalar(key, value); err != nil {
			return fmt.Errorf("restoring scalar %q: %w", key, err)
		}
	}
	if err := s.flat.SetScalar(flagKey, false); err != nil {
		return fmt.Errorf("clearing migration flag: %w", err)
	}

	s.log.Info("flat store restored from backup", "backup_id", b.ID, "created_at", b.CreatedAt)
	return nil
}

// GetStatus reports the migration state for diagnostics.
func (s *Service) GetStatus() (State, error) {
	var st State
	if _, err := s.flat.GetScalar(flagKey, &st.Migrated); err != nil {
		return State{}, err
	}
	for _, collection := range model.Collections {
		if s.flat.Has(collection) {
			st.HasFlatData = true
			break
		}
	}
	b, err := s.loadBackup()
	if err != nil {
		return State{}, err
	}
	if b != nil {
		st.HasBackup = true
		created := b.CreatedAt
		st.BackupDate = &created
	}
	return st, nil
}

// loadFlatCollections reads every non-empty flat collection as raw
// JSON records so malformed entries fail individually, not wholesale.
func (s *Service) loadFlatCollections() map[string][]json.RawMessage {
	raw := make(map[string][]json.RawMessage)
	for _, collection := range model.Collections {
		if !s.flat.Has(collection) {
			continue
		}
		var records []json.RawMessage
		if err := s.flat.Load(collection, &records); err != nil {
			s.log.Warn("loading flat collection", "collection", collection, "error", err)
			continue
		}
		if len(records) > 0 {
			raw[collection] = records
		}
	}
	return raw
}

func (s *Service) createBackup(raw map[string][]json.RawMessage) error {
	scalars, err := s.flat.Scalars()
	if err != nil {
		return fmt.Errorf("snapshotting scalars: %w", err)
	}
	delete(scalars, flagKey)
	delete(scalars, backupKey)

	b := backup{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Collections: raw,
		Scalars:     scalars,
	}
	if err := s.flat.Save(backupKey, b); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

func (s *Service) loadBackup() (*backup, error) {
	if !s.flat.Has(backupKey) {
		return nil, nil
	}
	var b backup
	if err := s.flat.Load(backupKey, &b); err != nil {
		return nil, fmt.Errorf("loading backup: %w", err)
	}
	if b.ID == "" && len(b.Collections) == 0 {
		// File exists but did not parse as a backup.
		return nil, nil
	}
	return &b, nil
}

// insertRecord transforms one raw flat record into the store's shape
// and inserts it. Defaults fill fields older flat records lack.
func (s *Service) insertRecord(ctx context.Context, collection string, raw json.RawMessage) error {
	switch collection {
	case model.CollectionFeedings:
		var f model.Feeding
		if err := json.Unmarshal(raw, &f); err != nil {
			return fmt.Errorf("parsing feeding: %w", err)
		}
		if f.Time.IsZero() {
			return fmt.Errorf("feeding has no time")
		}
		if f.NextInterval <= 0 {
			f.NextInterval = s.defaultInterval
		}
		if f.Timezone == "" {
			f.Timezone = s.defaultTimezone
		}
		_, err := s.records.AddFeeding(ctx, f)
		return err

	case model.CollectionDiapers:
		var d model.Diaper
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("parsing diaper: %w", err)
		}
		if d.Time.IsZero() {
			return fmt.Errorf("diaper has no time")
		}
		if d.Level == 0 {
			d.Level = 1
		}
		if d.Timezone == "" {
			d.Timezone = s.defaultTimezone
		}
		_, err := s.records.AddDiaper(ctx, d)
		return err

	case model.CollectionMeasurements:
		var m model.Measurement
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("parsing measurement: %w", err)
		}
		if m.Time.IsZero() {
			return fmt.Errorf("measurement has no time")
		}
		_, err := s.records.AddMeasurement(ctx, m)
		return err

	case model.CollectionMedicines:
		var m model.Medicine
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("parsing medicine: %w", err)
		}
		if m.Time.IsZero() {
			return fmt.Errorf("medicine has no time")
		}
		if m.Timezone == "" {
			m.Timezone = s.defaultTimezone
		}
		_, err := s.records.AddMedicine(ctx, m)
		return err

	case model.CollectionTemperatures:
		var t model.Temperature
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("parsing temperature: %w", err)
		}
		if t.Time.IsZero() {
			return fmt.Errorf("temperature has no time")
		}
		_, err := s.records.AddTemperature(ctx, t)
		return err

	case model.CollectionAppointments:
		var a model.Appointment
		if err := json.Unmarshal(raw, &a); err != nil {
			return fmt.Errorf("parsing appointment: %w", err)
		}
		if a.Time.IsZero() {
			return fmt.Errorf("appointment has no time")
		}
		_, err := s.records.AddAppointment(ctx, a)
		return err

	case model.CollectionJournal:
		var j model.JournalEntry
		if err := json.Unmarshal(raw, &j); err != nil {
			return fmt.Errorf("parsing journal entry: %w", err)
		}
		if j.Time.IsZero() {
			return fmt.Errorf("journal entry has no time")
		}
		_, err := s.records.AddJournalEntry(ctx, j)
		return err
	}
	return fmt.Errorf("unknown collection %q", collection)
}

// copySettings moves every user scalar into the SQLite metadata table.
// Individual failures are recorded, not fatal.
func (s *Service) copySettings(ctx context.Context, result *Result) {
	scalars, err := s.flat.Scalars()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("reading scalars: %v", err))
		return
	}
	for key, value := range scalars {
		if key == flagKey || key == backupKey {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("scalar %q: %v", key, err))
			continue
		}
		if err := s.records.SetMetadata(ctx, key, decoded); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("scalar %q: %v", key, err))
		}
	}
}
