package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddMeasurement validates and inserts a growth measurement.
func (s *SQLiteStore) AddMeasurement(ctx context.Context, m model.Measurement) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	m.Timestamp, m.Date, m.YearMonth, m.CreatedAt = stamp(m.Time)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO measurements (
			time, weight, height, timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Time.UTC(), m.Weight, m.Height,
		m.Timestamp, m.Date, m.YearMonth, m.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting measurement", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading measurement id", err)
	}
	return id, nil
}

// GetMeasurement retrieves a single measurement by id.
func (s *SQLiteStore) GetMeasurement(ctx context.Context, id int64) (*model.Measurement, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM measurements WHERE id = ?", id)
	m, err := scanMeasurement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("measurement %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting measurement %d: %w", id, err)
	}
	return &m, nil
}

// GetMeasurements retrieves measurements matching the options.
func (s *SQLiteStore) GetMeasurements(ctx context.Context, opts QueryOptions) ([]model.Measurement, error) {
	query, args := buildQuery("measurements", opts, nil, nil)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var measurements []model.Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

// UpdateMeasurement applies a patch field-by-field.
func (s *SQLiteStore) UpdateMeasurement(ctx context.Context, id int64, patch model.MeasurementPatch) error {
	var sets []string
	var args []interface{}

	if patch.Time != nil {
		ts, date, ym := model.TimeIndex(*patch.Time)
		sets = append(sets, "time = ?", "timestamp = ?", "date = ?", "year_month = ?")
		args = append(args, patch.Time.UTC(), ts, date, ym)
	}
	if patch.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *patch.Weight)
	}
	if patch.Height != nil {
		sets = append(sets, "height = ?")
		args = append(args, *patch.Height)
	}

	if len(sets) == 0 {
		_, err := s.GetMeasurement(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE measurements SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating measurement %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("measurement %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMeasurement removes a measurement by id. Deleting a missing id
// is not an error.
func (s *SQLiteStore) DeleteMeasurement(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM measurements WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting measurement %d", id), err)
	}
	return nil
}

// scanMeasurement scans a measurement row in schema column order.
func scanMeasurement(row interface{ Scan(dest ...interface{}) error }) (model.Measurement, error) {
	var m model.Measurement
	err := row.Scan(
		&m.ID, &m.Time, &m.Weight, &m.Height,
		&m.Timestamp, &m.Date, &m.YearMonth, &m.CreatedAt,
	)
	if err != nil {
		return model.Measurement{}, err
	}
	return m, nil
}
