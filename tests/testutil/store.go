package testutil

import (
	"testing"

	"github.com/lucasgonzalez939/babytrack/internal/flatstore"
	"github.com/lucasgonzalez939/babytrack/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestFlatStore creates a FlatStore rooted in a per-test temp dir.
func NewTestFlatStore(t *testing.T) *flatstore.FlatStore {
	t.Helper()

	f, err := flatstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating test flat store: %v", err)
	}
	return f
}
