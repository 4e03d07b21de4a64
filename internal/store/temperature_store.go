package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddTemperature validates and inserts a temperature reading.
func (s *SQLiteStore) AddTemperature(ctx context.Context, t model.Temperature) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	t.Timestamp, t.Date, t.YearMonth, t.CreatedAt = stamp(t.Time)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO temperatures (
			time, value, notes, timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Time.UTC(), t.Value, t.Notes,
		t.Timestamp, t.Date, t.YearMonth, t.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting temperature", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading temperature id", err)
	}
	return id, nil
}

// GetTemperature retrieves a single temperature reading by id.
func (s *SQLiteStore) GetTemperature(ctx context.Context, id int64) (*model.Temperature, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM temperatures WHERE id = ?", id)
	t, err := scanTemperature(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("temperature %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting temperature %d: %w", id, err)
	}
	return &t, nil
}

// GetTemperatures retrieves temperature readings matching the options.
func (s *SQLiteStore) GetTemperatures(ctx context.Context, opts QueryOptions) ([]model.Temperature, error) {
	query, args := buildQuery("temperatures", opts, nil, nil)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying temperatures: %w", err)
	}
	defer rows.Close()

	var temps []model.Temperature
	for rows.Next() {
		t, err := scanTemperature(rows)
		if err != nil {
			return nil, err
		}
		temps = append(temps, t)
	}
	return temps, rows.Err()
}

// UpdateTemperature applies a patch field-by-field.
func (s *SQLiteStore) UpdateTemperature(ctx context.Context, id int64, patch model.TemperaturePatch) error {
	var sets []string
	var args []interface{}

	if patch.Time != nil {
		ts, date, ym := model.TimeIndex(*patch.Time)
		sets = append(sets, "time = ?", "timestamp = ?", "date = ?", "year_month = ?")
		args = append(args, patch.Time.UTC(), ts, date, ym)
	}
	if patch.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *patch.Value)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}

	if len(sets) == 0 {
		_, err := s.GetTemperature(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE temperatures SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating temperature %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("temperature %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTemperature removes a temperature reading by id. Deleting a
// missing id is not an error.
func (s *SQLiteStore) DeleteTemperature(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM temperatures WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting temperature %d", id), err)
	}
	return nil
}

// scanTemperature scans a temperature row in schema column order.
func scanTemperature(row interface{ Scan(dest ...interface{}) error }) (model.Temperature, error) {
	var t model.Temperature
	err := row.Scan(
		&t.ID, &t.Time, &t.Value, &t.Notes,
		&t.Timestamp, &t.Date, &t.YearMonth, &t.CreatedAt,
	)
	if err != nil {
		return model.Temperature{}, err
	}
	return t, nil
}
