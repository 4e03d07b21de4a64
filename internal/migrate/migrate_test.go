package migrate

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
	"github.com/lucasgonzalez939/babytrack/tests/testutil"
)

func newService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	records := testutil.NewTestStore(t)
	flat := testutil.NewTestFlatStore(t)
	return New(records, flat, 3, "UTC", nil), records
}

func intPtr(v int) *int { return &v }

func seedFlat(t *testing.T, s *Service) {
	t.Helper()
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	feedings := []model.Feeding{
		{Time: at, Type: model.FeedingBottle, Amount: intPtr(120), NextInterval: 3},
		{Time: at.Add(3 * time.Hour), Type: model.FeedingBreast, Duration: intPtr(15), NextInterval: 3},
		{Time: at.Add(6 * time.Hour), Type: model.FeedingBottle, Amount: intPtr(90), NextInterval: 2.5},
	}
	diapers := []model.Diaper{
		{Time: at.Add(time.Hour), HasPee: true, Level: 1},
		{Time: at.Add(4 * time.Hour), HasPoop: true, Level: 2},
	}
	require.NoError(t, s.flat.Save(model.CollectionFeedings, feedings))
	require.NoError(t, s.flat.Save(model.CollectionDiapers, diapers))
	require.NoError(t, s.flat.SetScalar(model.SettingTimezone, "Europe/Madrid"))
}

func TestMigrateMovesAllRecords(t *testing.T) {
	t.Parallel()
	s, records := newService(t)
	ctx := context.Background()
	seedFlat(t, s)

	result := s.Migrate(ctx)
	require.Equal(t, StatusSuccess, result.Status)
	require.Empty(t, result.Errors)
	require.Equal(t, 3, result.Counts[model.CollectionFeedings])
	require.Equal(t, 2, result.Counts[model.CollectionDiapers])

	feedings, err := records.GetFeedings(ctx, store.FeedingFilter{})
	require.NoError(t, err)
	require.Len(t, feedings, 3)
	diapers, err := records.GetDiapers(ctx, store.DiaperFilter{})
	require.NoError(t, err)
	require.Len(t, diapers, 2)

	// Settings land in the metadata table.
	var tz string
	found, err := records.GetMetadata(ctx, model.SettingTimezone, &tz)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Europe/Madrid", tz)

	// The raw collections are gone, the backup stays.
	require.False(t, s.flat.Has(model.CollectionFeedings))
	require.False(t, s.flat.Has(model.CollectionDiapers))
	require.True(t, s.flat.Has(backupKey))

	var migrated bool
	found, err = s.flat.GetScalar(flagKey, &migrated)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, migrated)
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()
	s, records := newService(t)
	ctx := context.Background()
	seedFlat(t, s)

	require.Equal(t, StatusSuccess, s.Migrate(ctx).Status)
	require.Equal(t, StatusAlreadyMigrated, s.Migrate(ctx).Status)

	// Re-running does not duplicate records.
	feedings, err := records.GetFeedings(ctx, store.FeedingFilter{})
	require.NoError(t, err)
	require.Len(t, feedings, 3)
}

func TestMigrateNoData(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)

	result := s.Migrate(context.Background())
	require.Equal(t, StatusNoData, result.Status)

	// The flag is set even with nothing to move, so later runs short
	// circuit.
	require.Equal(t, StatusAlreadyMigrated, s.Migrate(context.Background()).Status)
}

func TestMigrateSkipsBadRecords(t *testing.T) {
	t.Parallel()
	s, records := newService(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	raw := []json.RawMessage{
		mustJSON(t, model.Feeding{Time: at, Type: model.FeedingBottle, Amount: intPtr(120), NextInterval: 3}),
		json.RawMessage(`{"time":"not-a-time"}`),
		mustJSON(t, model.Feeding{Time: at.Add(time.Hour), Type: model.FeedingBreast, Duration: intPtr(10), NextInterval: 3}),
	}
	require.NoError(t, s.flat.Save(model.CollectionFeedings, raw))

	result := s.Migrate(ctx)
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, 2, result.Counts[model.CollectionFeedings])
	require.Len(t, result.Errors, 1)

	feedings, err := records.GetFeedings(ctx, store.FeedingFilter{})
	require.NoError(t, err)
	require.Len(t, feedings, 2)

	// Bad records do not block the flag.
	var migrated bool
	_, err = s.flat.GetScalar(flagKey, &migrated)
	require.NoError(t, err)
	require.True(t, migrated)
}

func TestMigrateFillsDefaults(t *testing.T) {
	t.Parallel()
	s, records := newService(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	// Legacy records without interval, timezone, or level.
	require.NoError(t, s.flat.Save(model.CollectionFeedings, []json.RawMessage{
		json.RawMessage(`{"time":"2024-03-15T10:30:00Z","type":"bottle","amount":120}`),
	}))
	require.NoError(t, s.flat.Save(model.CollectionDiapers, []json.RawMessage{
		json.RawMessage(`{"time":"2024-03-15T11:00:00Z","has_pee":true}`),
	}))

	result := s.Migrate(ctx)
	require.Equal(t, StatusSuccess, result.Status)
	require.Empty(t, result.Errors)

	feedings, err := records.GetFeedings(ctx, store.FeedingFilter{})
	require.NoError(t, err)
	require.Len(t, feedings, 1)
	require.Equal(t, 3.0, feedings[0].NextInterval)
	require.Equal(t, "UTC", feedings[0].Timezone)
	require.True(t, feedings[0].Time.Equal(at))

	diapers, err := records.GetDiapers(ctx, store.DiaperFilter{})
	require.NoError(t, err)
	require.Len(t, diapers, 1)
	require.Equal(t, 1, diapers[0].Level)
}

func TestRestoreFromBackup(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	ctx := context.Background()
	seedFlat(t, s)

	require.Equal(t, StatusSuccess, s.Migrate(ctx).Status)
	require.False(t, s.flat.Has(model.CollectionFeedings))

	require.NoError(t, s.RestoreFromBackup())

	var feedings []model.Feeding
	require.NoError(t, s.flat.Load(model.CollectionFeedings, &feedings))
	require.Len(t, feedings, 3)

	var tz string
	found, err := s.flat.GetScalar(model.SettingTimezone, &tz)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Europe/Madrid", tz)

	// The flag is cleared, so the migration runs again next start.
	var migrated bool
	_, err = s.flat.GetScalar(flagKey, &migrated)
	require.NoError(t, err)
	require.False(t, migrated)
}

func TestRestoreWithoutBackup(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)

	require.ErrorIs(t, s.RestoreFromBackup(), ErrNoBackup)
}

func TestGetStatus(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	ctx := context.Background()

	st, err := s.GetStatus()
	require.NoError(t, err)
	require.False(t, st.Migrated)
	require.False(t, st.HasBackup)
	require.False(t, st.HasFlatData)
	require.Nil(t, st.BackupDate)

	seedFlat(t, s)
	st, err = s.GetStatus()
	require.NoError(t, err)
	require.True(t, st.HasFlatData)

	require.Equal(t, StatusSuccess, s.Migrate(ctx).Status)
	st, err = s.GetStatus()
	require.NoError(t, err)
	require.True(t, st.Migrated)
	require.True(t, st.HasBackup)
	require.False(t, st.HasFlatData)
	require.NotNil(t, st.BackupDate)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
