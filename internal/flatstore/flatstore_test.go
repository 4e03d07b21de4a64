package flatstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

func newStore(t *testing.T) *FlatStore {
	t.Helper()
	fs, err := New(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	in := []model.Diaper{
		{ID: 1, HasPee: true, Level: 1},
		{ID: 2, HasPoop: true, Level: 3, Notes: "blowout"},
	}
	require.NoError(t, fs.Save(model.CollectionDiapers, in))
	require.True(t, fs.Has(model.CollectionDiapers))

	var out []model.Diaper
	require.NoError(t, fs.Load(model.CollectionDiapers, &out))
	require.Equal(t, in, out)
}

func TestLoadMissingCollectionReadsEmpty(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	var out []model.Feeding
	require.NoError(t, fs.Load(model.CollectionFeedings, &out))
	require.Empty(t, out)
	require.False(t, fs.Has(model.CollectionFeedings))
}

func TestLoadCorruptCollectionReadsEmpty(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	path := filepath.Join(fs.Dir(), model.CollectionFeedings+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var out []model.Feeding
	require.NoError(t, fs.Load(model.CollectionFeedings, &out))
	require.Empty(t, out)
}

func TestSaveReplacesWholeCollection(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	require.NoError(t, fs.Save(model.CollectionFeedings, []model.Feeding{{ID: 1}, {ID: 2}}))
	require.NoError(t, fs.Save(model.CollectionFeedings, []model.Feeding{{ID: 3}}))

	var out []model.Feeding
	require.NoError(t, fs.Load(model.CollectionFeedings, &out))
	require.Len(t, out, 1)
	require.Equal(t, int64(3), out[0].ID)
}

func TestRemoveIdempotent(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	require.NoError(t, fs.Save(model.CollectionJournal, []model.JournalEntry{{ID: 1}}))
	require.NoError(t, fs.Remove(model.CollectionJournal))
	require.False(t, fs.Has(model.CollectionJournal))
	require.NoError(t, fs.Remove(model.CollectionJournal))
}

func TestScalars(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	var missing bool
	found, err := fs.GetScalar("migrated", &missing)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, fs.SetScalar("migrated", true))
	require.NoError(t, fs.SetScalar("timezone", "Europe/Madrid"))

	var migrated bool
	found, err = fs.GetScalar("migrated", &migrated)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, migrated)

	all, err := fs.Scalars()
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, fs.DeleteScalar("timezone"))
	var tz string
	found, err = fs.GetScalar("timezone", &tz)
	require.NoError(t, err)
	require.False(t, found)

	// Deleting an absent key is not an error.
	require.NoError(t, fs.DeleteScalar("timezone"))
}

func TestScalarsSurviveReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	fs, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, fs.SetScalar("feeding_interval_hours", 2.5))

	reopened, err := New(dir)
	require.NoError(t, err)
	var interval float64
	found, err := reopened.GetScalar("feeding_interval_hours", &interval)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2.5, interval)
}

func TestNextIDMonotonic(t *testing.T) {
	t.Parallel()
	fs := newStore(t)

	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id := fs.NextID()
		require.Greater(t, id, prev)
		require.False(t, seen[id])
		seen[id] = true
		prev = id
	}
}
