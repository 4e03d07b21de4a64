package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddMedicine validates and inserts a medicine dose record.
func (s *SQLiteStore) AddMedicine(ctx context.Context, m model.Medicine) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	m.Timestamp, m.Date, m.YearMonth, m.CreatedAt = stamp(m.Time)

	var nextDose *time.Time
	if m.NextDose != nil {
		utc := m.NextDose.UTC()
		nextDose = &utc
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO medicines (
			time, name, dose, interval_hours, notes, active, next_dose, timezone,
			timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Time.UTC(), m.Name, m.Dose, m.IntervalHours, m.Notes,
		boolToInt(m.Active), nextDose, m.Timezone,
		m.Timestamp, m.Date, m.YearMonth, m.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting medicine", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading medicine id", err)
	}
	return id, nil
}

// GetMedicine retrieves a single medicine record by id.
func (s *SQLiteStore) GetMedicine(ctx context.Context, id int64) (*model.Medicine, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM medicines WHERE id = ?", id)
	m, err := scanMedicine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("medicine %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting medicine %d: %w", id, err)
	}
	return &m, nil
}

// GetMedicines retrieves medicine records matching the filter.
func (s *SQLiteStore) GetMedicines(ctx context.Context, filter MedicineFilter) ([]model.Medicine, error) {
	var extra []string
	var extraArgs []interface{}
	if filter.Active != nil {
		extra = append(extra, "active = ?")
		extraArgs = append(extraArgs, boolToInt(*filter.Active))
	}

	query, args := buildQuery("medicines", filter.QueryOptions, extra, extraArgs)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying medicines: %w", err)
	}
	defer rows.Close()

	var medicines []model.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

// UpdateMedicine applies a patch field-by-field. ClearNextDose removes
// the reminder; a non-nil NextDose replaces it.
func (s *SQLiteStore) UpdateMedicine(ctx context.Context, id int64, patch model.MedicinePatch) error {
	var sets []string
	var args []interface{}

	if patch.Time != nil {
		ts, date, ym := model.TimeIndex(*patch.Time)
		sets = append(sets, "time = ?", "timestamp = ?", "date = ?", "year_month = ?")
		args = append(args, patch.Time.UTC(), ts, date, ym)
	}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Dose != nil {
		sets = append(sets, "dose = ?")
		args = append(args, *patch.Dose)
	}
	if patch.IntervalHours != nil {
		sets = append(sets, "interval_hours = ?")
		args = append(args, *patch.IntervalHours)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if patch.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, boolToInt(*patch.Active))
	}
	switch {
	case patch.ClearNextDose:
		sets = append(sets, "next_dose = NULL")
	case patch.NextDose != nil:
		sets = append(sets, "next_dose = ?")
		args = append(args, patch.NextDose.UTC())
	}

	if len(sets) == 0 {
		_, err := s.GetMedicine(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE medicines SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating medicine %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("medicine %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMedicine removes a medicine record by id. Deleting a missing
// id is not an error.
func (s *SQLiteStore) DeleteMedicine(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM medicines WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting medicine %d", id), err)
	}
	return nil
}

// scanMedicine scans a medicine row in schema column order.
func scanMedicine(row interface{ Scan(dest ...interface{}) error }) (model.Medicine, error) {
	var (
		m         model.Medicine
		activeInt int
		nextDose  *time.Time
	)
	err := row.Scan(
		&m.ID, &m.Time, &m.Name, &m.Dose, &m.IntervalHours, &m.Notes,
		&activeInt, &nextDose, &m.Timezone,
		&m.Timestamp, &m.Date, &m.YearMonth, &m.CreatedAt,
	)
	if err != nil {
		return model.Medicine{}, err
	}
	m.Active = activeInt != 0
	m.NextDose = nextDose
	return m, nil
}
