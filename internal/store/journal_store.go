package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// AddJournalEntry validates and inserts a journal entry. Tags are
// stored as a JSON array.
func (s *SQLiteStore) AddJournalEntry(ctx context.Context, j model.JournalEntry) (int64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}
	j.Timestamp, j.Date, j.YearMonth, j.CreatedAt = stamp(j.Time)
	if j.Category == "" {
		j.Category = model.JournalNote
	}

	tags, err := json.Marshal(j.Tags)
	if err != nil {
		return 0, fmt.Errorf("marshaling journal tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (
			time, category, title, description, tags,
			timestamp, date, year_month, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.Time.UTC(), j.Category, j.Title, j.Description, string(tags),
		j.Timestamp, j.Date, j.YearMonth, j.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("inserting journal entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("reading journal entry id", err)
	}
	return id, nil
}

// GetJournalEntry retrieves a single journal entry by id.
func (s *SQLiteStore) GetJournalEntry(ctx context.Context, id int64) (*model.JournalEntry, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM journal_entries WHERE id = ?", id)
	j, err := scanJournalEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("journal entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting journal entry %d: %w", id, err)
	}
	return &j, nil
}

// GetJournalEntries retrieves journal entries matching the filter.
func (s *SQLiteStore) GetJournalEntries(ctx context.Context, filter JournalFilter) ([]model.JournalEntry, error) {
	var extra []string
	var extraArgs []interface{}
	if filter.Category != nil {
		extra = append(extra, "category = ?")
		extraArgs = append(extraArgs, *filter.Category)
	}

	query, args := buildQuery("journal_entries", filter.QueryOptions, extra, extraArgs)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		j, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, j)
	}
	return entries, rows.Err()
}

// UpdateJournalEntry applies a patch field-by-field. A non-nil Tags
// slice replaces the stored tags wholesale.
func (s *SQLiteStore) UpdateJournalEntry(ctx context.Context, id int64, patch model.JournalPatch) error {
	var sets []string
	var args []interface{}

	if patch.Time != nil {
		ts, date, ym := model.TimeIndex(*patch.Time)
		sets = append(sets, "time = ?", "timestamp = ?", "date = ?", "year_month = ?")
		args = append(args, patch.Time.UTC(), ts, date, ym)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Tags != nil {
		tags, err := json.Marshal(patch.Tags)
		if err != nil {
			return fmt.Errorf("marshaling journal tags: %w", err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(tags))
	}

	if len(sets) == 0 {
		_, err := s.GetJournalEntry(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		"UPDATE journal_entries SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return writeErr(fmt.Sprintf("updating journal entry %d", id), err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("journal entry %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteJournalEntry removes a journal entry by id. Deleting a missing
// id is not an error.
func (s *SQLiteStore) DeleteJournalEntry(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = ?", id); err != nil {
		return writeErr(fmt.Sprintf("deleting journal entry %d", id), err)
	}
	return nil
}

// scanJournalEntry scans a journal row in schema column order.
func scanJournalEntry(row interface{ Scan(dest ...interface{}) error }) (model.JournalEntry, error) {
	var (
		j        model.JournalEntry
		tagsJSON string
	)
	err := row.Scan(
		&j.ID, &j.Time, &j.Category, &j.Title, &j.Description, &tagsJSON,
		&j.Timestamp, &j.Date, &j.YearMonth, &j.CreatedAt,
	)
	if err != nil {
		return model.JournalEntry{}, err
	}
	if tagsJSON != "" && tagsJSON != "null" {
		if err := json.Unmarshal([]byte(tagsJSON), &j.Tags); err != nil {
			return model.JournalEntry{}, fmt.Errorf("unmarshaling journal tags: %w", err)
		}
	}
	return j, nil
}
