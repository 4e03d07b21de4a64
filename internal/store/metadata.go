package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SetMetadata stores a single scalar setting under key, overwriting any
// prior value. Values are JSON-encoded so strings, numbers, and bools
// round-trip losslessly.
func (s *SQLiteStore) SetMetadata(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding metadata %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(encoded), time.Now().UTC(),
	)
	if err != nil {
		return writeErr(fmt.Sprintf("setting metadata %q", key), err)
	}
	return nil
}

// GetMetadata decodes the value stored under key into dest. Returns
// false with no error when the key is absent.
func (s *SQLiteStore) GetMetadata(ctx context.Context, key string, dest any) (bool, error) {
	var encoded string
	err := s.db.GetContext(ctx, &encoded, "SELECT value FROM metadata WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting metadata %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(encoded), dest); err != nil {
		return false, fmt.Errorf("decoding metadata %q: %w", key, err)
	}
	return true, nil
}
