package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// collectionTables maps collection names to their SQLite tables.
// Used by Clear/ClearAll to validate collection names before building SQL.
var collectionTables = map[string]string{
	model.CollectionFeedings:     "feedings",
	model.CollectionDiapers:      "diapers",
	model.CollectionMeasurements: "measurements",
	model.CollectionMedicines:    "medicines",
	model.CollectionTemperatures: "temperatures",
	model.CollectionAppointments: "appointments",
	model.CollectionJournal:      "journal_entries",
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
// Open failures are reported as ErrStorageUnavailable so the caller
// can fall back to the flat store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", errors.Join(ErrStorageUnavailable, err))
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", errors.Join(ErrStorageUnavailable, err))
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", errors.Join(ErrStorageUnavailable, err))
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", errors.Join(ErrStorageUnavailable, err))
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Clear wipes a single collection.
func (s *SQLiteStore) Clear(ctx context.Context, collection string) error {
	table, ok := collectionTables[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return writeErr("clearing "+collection, err)
	}
	return nil
}

// ClearAll wipes every typed collection and the metadata table.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	for _, name := range model.Collections {
		if err := s.Clear(ctx, name); err != nil {
			return err
		}
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM metadata"); err != nil {
		return writeErr("clearing metadata", err)
	}
	return nil
}

// writeErr tags a backend I/O failure so callers can test
// errors.Is(err, ErrWrite).
func writeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrWrite, err))
}

// queryConditions builds the WHERE conditions for QueryOptions, using
// the most selective index available: timestamp range, then exact date,
// then exact year-month. The timestamp range is inclusive on both ends.
func queryConditions(o QueryOptions) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	switch {
	case o.StartDate != nil || o.EndDate != nil:
		if o.StartDate != nil {
			conditions = append(conditions, "timestamp >= ?")
			args = append(args, o.StartDate.UTC().UnixMilli())
		}
		if o.EndDate != nil {
			conditions = append(conditions, "timestamp <= ?")
			args = append(args, o.EndDate.UTC().UnixMilli())
		}
	case o.Date != nil:
		conditions = append(conditions, "date = ?")
		args = append(args, *o.Date)
	case o.YearMonth != nil:
		conditions = append(conditions, "year_month = ?")
		args = append(args, *o.YearMonth)
	}

	return conditions, args
}

// buildQuery assembles a full SELECT for one collection table from the
// shared options plus any entity-specific conditions.
func buildQuery(table string, o QueryOptions, extra []string, extraArgs []interface{}) (string, []interface{}) {
	conditions, args := queryConditions(o)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := "SELECT * FROM " + table
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "DESC"
	if o.Ascending {
		direction = "ASC"
	}
	query += " ORDER BY timestamp " + direction

	if o.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", o.Limit)
	}

	return query, args
}

// stamp fills the derived index fields and creation time for a record
// about to be inserted.
func stamp(t time.Time) (timestamp int64, date, yearMonth string, createdAt time.Time) {
	timestamp, date, yearMonth = model.TimeIndex(t)
	return timestamp, date, yearMonth, time.Now().UTC()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
