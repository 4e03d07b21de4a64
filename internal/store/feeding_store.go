package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddFeeding validates and inserts a feeding, deriving the index fields
// from its time. Returns the backend-assigned id.
func (s *SQLiteStore) AddFeeding(ctx context.Context, f model.Feeding) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	f.Timestamp, f.Date, f.YearMonth, f.CreatedAt = stamp(f.Time)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedings (
			time, type, amount, duration, next_interval, timezone,
			timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Time.UTC(), f.Type, f.Amount, f.Duration, f.NextInterval, f.Timezone,
		f.Timestamp, f.Date, f.YearMonth, f.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting feeding", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading feeding id", err)
	}
	return id, nil
}

// GetFeeding retrieves a single feeding by id.
func (s *SQLiteStore) GetFeeding(ctx context.Context, id int64) (*model.Feeding, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM feedings WHERE id = ?", id)
	f, err := scanFeeding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feeding %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting feeding %d: %w", id, err)
	}
	return &f, nil
}

// GetFeedings retrieves feedings matching the filter, newest first
// unless Ascending is set.
func (s *SQLiteStore) GetFeedings(ctx context.Context, filter FeedingFilter) ([]model.Feeding, error) {
	var extra []string
	var extraArgs []interface{}
	if filter.Type != nil {
		extra = append(extra, "type = ?")
		extraArgs = append(extraArgs, *filter.Type)
	}

	query, args := buildQuery("feedings", filter.QueryOptions, extra, extraArgs)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feedings: %w", err)
	}
	defer rows.Close()

	var feedings []model.Feeding
	for rows.Next() {
		f, err := scanFeeding(rows)
		if err != nil {
			return nil, err
		}
		feedings = append(feedings, f)
	}
	return feedings, rows.Err()
}

// UpdateFeeding applies a patch field-by-field. If the time changes,
// the derived index fields are recomputed with it.
func (s *SQLiteStore) UpdateFeeding(ctx context.Context, id int64, patch model.FeedingPatch) error {
	var sets []string
	var args []interface{}

	if patch.Time != nil {
		ts, date, ym := model.TimeIndex(*patch.Time)
		sets = append(sets, "time = ?", "timestamp = ?", "date = ?", "year_month = ?")
		args = append(args, patch.Time.UTC(), ts, date, ym)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *patch.Type)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *patch.Duration)
	}
	if patch.NextInterval != nil {
		sets = append(sets, "next_interval = ?")
		args = append(args, *patch.NextInterval)
	}
	if patch.Timezone != nil {
		sets = append(sets, "timezone = ?")
		args = append(args, *patch.Timezone)
	}

	if len(sets) == 0 {
		_, err := s.GetFeeding(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE feedings SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating feeding %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("feeding %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteFeeding removes a feeding by id. Deleting a missing id is not
// an error.
func (s *SQLiteStore) DeleteFeeding(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM feedings WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting feeding %d", id), err)
	}
	return nil
}

// scanFeeding scans a feeding row in schema column order.
func scanFeeding(row interface{ Scan(dest ...interface{}) error }) (model.Feeding, error) {
	var f model.Feeding
	err := row.Scan(
		&f.ID, &f.Time, &f.Type, &f.Amount, &f.Duration,
		&f.NextInterval, &f.Timezone,
		&f.Timestamp, &f.Date, &f.YearMonth, &f.CreatedAt,
	)
	if err != nil {
		return model.Feeding{}, err
	}
	return f, nil
}
