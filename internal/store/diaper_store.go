package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddDiaper validates and inserts a diaper change, deriving the index
// fields from its time.
func (s *SQLiteStore) AddDiaper(ctx context.Context, d model.Diaper) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	d.Timestamp, d.Date, d.YearMonth, d.CreatedAt = stamp(d.Time)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO diapers (
			time, has_pee, has_poop, level, notes, timezone,
			timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Time.UTC(), boolToInt(d.HasPee), boolToInt(d.HasPoop),
		d.Level, d.Notes, d.Timezone,
		d.Timestamp, d.Date, d.YearMonth, d.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting diaper", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading diaper id", err)
	}
	return id, nil
}

// GetDiaper retrieves a single diaper change by id.
func (s *SQLiteStore) GetDiaper(ctx context.Context, id int64) (*model.Diaper, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM diapers WHERE id = ?", id)
	d, err := scanDiaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("diaper %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting diaper %d: %w", id, err)
	}
	return &d, nil
}

// GetDiapers retrieves diaper changes matching the filter.
func (s *SQLiteStore) GetDiapers(ctx context.Context, filter DiaperFilter) ([]model.Diaper, error) {
	var extra []string
	var extraArgs []interface{}
	if filter.HasPee != nil {
		extra = append(extra, "has_pee = ?")
		extraArgs = append(extraArgs, boolToInt(*filter.HasPee))
	}
	if filter.HasPoop != nil {
		extra = append(extra, "has_poop = ?")
		extraArgs = append(extraArgs, boolToInt(*filter.HasPoop))
	}

	query, args := buildQuery("diapers", filter.QueryOptions, extra, extraArgs)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying diapers: %w", err)
	}
	defer rows.Close()

	var diapers []model.Diaper
	for rows.Next() {
		d, err := scanDiaper(rows)
		if err != nil {
			return nil, err
		}
		diapers = append(diapers, d)
	}
	return diapers, rows.Err()
}

// UpdateDiaper applies a patch field-by-field, recomputing the derived
// index fields when the time changes.
func (s *SQLiteStore) UpdateDiaper(ctx context.Context, id int64, patch model.DiaperPatch) error {
	var sets []string
	var args []interface{}

	if patch.Time != nil {
		ts, date, ym := model.TimeIndex(*patch.Time)
		sets = append(sets, "time = ?", "timestamp = ?", "date = ?", "year_month = ?")
		args = append(args, patch.Time.UTC(), ts, date, ym)
	}
	if patch.HasPee != nil {
		sets = append(sets, "has_pee = ?")
		args = append(args, boolToInt(*patch.HasPee))
	}
	if patch.HasPoop != nil {
		sets = append(sets, "has_poop = ?")
		args = append(args, boolToInt(*patch.HasPoop))
	}
	if patch.Level != nil {
		sets = append(sets, "level = ?")
		args = append(args, *patch.Level)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}

	if len(sets) == 0 {
		_, err := s.GetDiaper(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE diapers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating diaper %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("diaper %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteDiaper removes a diaper change by id. Deleting a missing id is
// not an error.
func (s *SQLiteStore) DeleteDiaper(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM diapers WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting diaper %d", id), err)
	}
	return nil
}

// scanDiaper scans a diaper row in schema column order.
func scanDiaper(row interface{ Scan(dest ...interface{}) error }) (model.Diaper, error) {
	var (
		d       model.Diaper
		peeInt  int
		poopInt int
	)
	err := row.Scan(
		&d.ID, &d.Time, &peeInt, &poopInt, &d.Level, &d.Notes, &d.Timezone,
		&d.Timestamp, &d.Date, &d.YearMonth, &d.CreatedAt,
	)
	if err != nil {
		return model.Diaper{}, err
	}
	d.HasPee = peeInt != 0
	d.HasPoop = poopInt != 0
	return d, nil
}
