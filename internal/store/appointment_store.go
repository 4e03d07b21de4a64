package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddAppointment validates and inserts an appointment.
func (s *SQLiteStore) AddAppointment(ctx context.Context, a model.Appointment) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	a.Timestamp, a.Date, a.YearMonth, a.CreatedAt = stamp(a.Time)
	if a.Type == "" {
		a.Type = model.AppointmentOther
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO appointments (
			time, type, title, location, notes, completed,
			timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Time.UTC(), a.Type, a.Title, a.Location, a.Notes, boolToInt(a.Completed),
		a.Timestamp, a.Date, a.YearMonth, a.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting appointment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading appointment id", err)
	}
	return id, nil
}

// GetAppointment retrieves a single appointment by id.
func (s *SQLiteStore) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM appointments WHERE id = ?", id)
	a, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting appointment %d: %w", id, err)
	}
	return &a, nil
}

// GetAppointments retrieves appointments matching the filter.
func (s *SQLiteStore) GetAppointments(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error) {
	var extra []string
	var extraArgs []interface{}
	if filter.Type != nil {
		extra = append(extra, "type = ?")
		extraArgs = append(extraArgs, *filter.Type)
	}
	if filter.Completed != nil {
		extra = append(extra, "completed = ?")
		extraArgs = append(extraArgs, boolToInt(*filter.Completed))
	}

	query, args := buildQuery("appointments", filter.QueryOptions, extra, extraArgs)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// UpdateAppointment applies a patch field-by-field.
func (s *SQLiteStore) UpdateAppointment(ctx context.Context, id int64, patch model.AppointmentPatch) error {
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
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*patch.Completed))
	}

	if len(sets) == 0 {
		_, err := s.GetAppointment(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE appointments SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating appointment %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAppointment removes an appointment by id. Deleting a missing
// id is not an error.
func (s *SQLiteStore) DeleteAppointment(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting appointment %d", id), err)
	}
	return nil
}

// scanAppointment scans an appointment row in schema column order.
func scanAppointment(row interface{ Scan(dest ...interface{}) error }) (model.Appointment, error) {
	var (
		a            model.Appointment
		completedInt int
	)
	err := row.Scan(
		&a.ID, &a.Time, &a.Type, &a.Title, &a.Location, &a.Notes, &completedInt,
		&a.Timestamp, &a.Date, &a.YearMonth, &a.CreatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	a.Completed = completedInt != 0
	return a, nil
}
