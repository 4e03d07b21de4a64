package tracker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
	"github.com/lucasgonzalez939/babytrack/internal/tracker"
)

func testConfig(t *testing.T) *model.AppConfig {
	t.Helper()
	return &model.AppConfig{
		DataDir:              t.TempDir(),
		Database:             "babytrack.db",
		FeedingIntervalHours: 3,
		Timezone:             "UTC",
	}
}

func newPrimary(t *testing.T, cfg *model.AppConfig) *tracker.Controller {
	t.Helper()
	c, err := tracker.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, tracker.ModePrimary, c.Mode())
	t.Cleanup(func() { c.Close() })
	return c
}

// newFallback blocks the database path with a directory so the record
// store cannot open and the controller drops to the flat store.
func newFallback(t *testing.T, cfg *model.AppConfig) *tracker.Controller {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.DatabasePath(), 0o755))
	c, err := tracker.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, tracker.ModeFallback, c.Mode())
	t.Cleanup(func() { c.Close() })
	return c
}

func intPtr(v int) *int { return &v }

func TestPrimaryModeSelectedWhenStoreOpens(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	require.NotNil(t, c.Migrator())
}

func TestFallbackModeWhenStoreUnavailable(t *testing.T) {
	t.Parallel()
	c := newFallback(t, testConfig(t))
	require.Nil(t, c.Migrator())
}

func TestAddFeedingMirrorsStoredRecord(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	stored, err := c.AddFeeding(ctx, model.Feeding{
		Time: at, Type: model.FeedingBottle, Amount: intPtr(120),
	})
	require.NoError(t, err)
	require.Greater(t, stored.ID, int64(0))
	// Interval default comes from settings.
	require.Equal(t, 3.0, stored.NextInterval)
	require.Equal(t, "2024-03-15", stored.Date)

	listed := c.ListFeedings(tracker.PeriodAll)
	require.Len(t, listed, 1)
	require.Equal(t, stored.ID, listed[0].ID)
}

func TestListFeedingsNewestFirst(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := c.AddFeeding(ctx, model.Feeding{
			Time: base.Add(time.Duration(i) * time.Hour),
			Type: model.FeedingBottle, Amount: intPtr(100),
		})
		require.NoError(t, err)
	}

	listed := c.ListFeedings(tracker.PeriodAll)
	require.Len(t, listed, 3)
	for i := 1; i < len(listed); i++ {
		require.True(t, listed[i].Time.Before(listed[i-1].Time))
	}
}

func TestListFeedingsPeriodFilter(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	_, err := c.AddFeeding(ctx, model.Feeding{
		Time: time.Now().Add(-30 * 24 * time.Hour),
		Type: model.FeedingBottle, Amount: intPtr(120),
	})
	require.NoError(t, err)
	_, err = c.AddFeeding(ctx, model.Feeding{
		Time: time.Now(),
		Type: model.FeedingBottle, Amount: intPtr(90),
	})
	require.NoError(t, err)

	require.Len(t, c.ListFeedings(tracker.PeriodAll), 2)
	require.Len(t, c.ListFeedings(tracker.PeriodWeek), 1)
}

func TestFallbackAddPersistsToFlatFiles(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	c := newFallback(t, cfg)
	ctx := context.Background()

	stored, err := c.AddDiaper(ctx, model.Diaper{
		Time: time.Now(), HasPee: true, Level: 2,
	})
	require.NoError(t, err)
	require.Greater(t, stored.ID, int64(0))

	// A fresh fallback controller over the same directory sees the record.
	c2, err := tracker.New(ctx, cfg, nil)
	require.NoError(t, err)
	defer c2.Close()
	require.Equal(t, tracker.ModeFallback, c2.Mode())

	listed := c2.ListDiapers(tracker.PeriodAll)
	require.Len(t, listed, 1)
	require.Equal(t, stored.ID, listed[0].ID)
}

func TestFallbackDeleteRemovesFromFlatFiles(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	c := newFallback(t, cfg)
	ctx := context.Background()

	stored, err := c.AddFeeding(ctx, model.Feeding{
		Time: time.Now(), Type: model.FeedingBottle, Amount: intPtr(120),
	})
	require.NoError(t, err)
	require.NoError(t, c.DeleteFeeding(ctx, stored.ID))
	require.Empty(t, c.ListFeedings(tracker.PeriodAll))

	c2, err := tracker.New(ctx, cfg, nil)
	require.NoError(t, err)
	defer c2.Close()
	require.Empty(t, c2.ListFeedings(tracker.PeriodAll))
}

func TestStartupMigratesFlatData(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	// Seed flat data by running a session in fallback mode.
	blocker := cfg.DatabasePath()
	require.NoError(t, os.MkdirAll(blocker, 0o755))
	fallback, err := tracker.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	_, err = fallback.AddFeeding(context.Background(), model.Feeding{
		Time: time.Now(), Type: model.FeedingBottle, Amount: intPtr(120),
	})
	require.NoError(t, err)
	require.NoError(t, fallback.Close())

	// Unblock the database path; the next start migrates.
	require.NoError(t, os.Remove(blocker))
	c := newPrimary(t, cfg)

	listed := c.ListFeedings(tracker.PeriodAll)
	require.Len(t, listed, 1)

	st, err := c.Migrator().GetStatus()
	require.NoError(t, err)
	require.True(t, st.Migrated)
	require.True(t, st.HasBackup)

	// The flat collection file is gone.
	_, err = os.Stat(filepath.Join(cfg.FlatDir(), model.CollectionFeedings+".json"))
	require.True(t, os.IsNotExist(err))
}

func TestMarkMedicineTaken(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	med, err := c.AddMedicine(ctx, model.Medicine{
		Time: start, Name: "amoxicillin", Dose: "5 ml",
		IntervalHours: 8, Active: true,
	})
	require.NoError(t, err)
	require.NotNil(t, med.NextDose)
	require.True(t, med.NextDose.Equal(start.Add(8*time.Hour)))

	takenAt := start.Add(9 * time.Hour)
	history, err := c.MarkMedicineTaken(ctx, med.ID, takenAt)
	require.NoError(t, err)
	require.Equal(t, "amoxicillin", history.Name)
	require.Equal(t, 0.0, history.IntervalHours)
	require.False(t, history.Active)
	require.True(t, history.Time.Equal(takenAt))

	// The schedule advances from the taken time, not the old reminder.
	listed := c.ListMedicines(tracker.PeriodAll)
	require.Len(t, listed, 2)
	var scheduled *model.Medicine
	for i := range listed {
		if listed[i].ID == med.ID {
			scheduled = &listed[i]
		}
	}
	require.NotNil(t, scheduled)
	require.NotNil(t, scheduled.NextDose)
	require.True(t, scheduled.NextDose.Equal(takenAt.Add(8*time.Hour)))
}

func TestMarkMedicineTakenMissing(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))

	_, err := c.MarkMedicineTaken(context.Background(), 404, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStopMedicineTreatment(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	med, err := c.AddMedicine(ctx, model.Medicine{
		Time: time.Now(), Name: "ibuprofen", IntervalHours: 6, Active: true,
	})
	require.NoError(t, err)
	require.NotNil(t, med.NextDose)

	require.NoError(t, c.StopMedicineTreatment(ctx, med.ID))

	listed := c.ListMedicines(tracker.PeriodAll)
	require.Len(t, listed, 1)
	require.False(t, listed[0].Active)
	require.Nil(t, listed[0].NextDose)
}

func TestMarkAppointmentCompleted(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	appt, err := c.AddAppointment(ctx, model.Appointment{
		Time: time.Now(), Type: model.AppointmentCheckup, Title: "2 month checkup",
	})
	require.NoError(t, err)
	require.False(t, appt.Completed)

	require.NoError(t, c.MarkAppointmentCompleted(ctx, appt.ID))
	listed := c.ListAppointments(tracker.PeriodAll)
	require.Len(t, listed, 1)
	require.True(t, listed[0].Completed)
}

func TestSettingsPersistAcrossSessions(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	ctx := context.Background()

	c := newPrimary(t, cfg)
	s := c.Settings()
	require.Equal(t, 3.0, s.FeedingIntervalHours)

	s.FeedingIntervalHours = 2.5
	s.DailyMilkTargetML = 750
	s.DarkMode = true
	require.NoError(t, c.UpdateSettings(ctx, s))
	require.NoError(t, c.Close())

	c2, err := tracker.New(ctx, cfg, nil)
	require.NoError(t, err)
	defer c2.Close()

	s2 := c2.Settings()
	require.Equal(t, 2.5, s2.FeedingIntervalHours)
	require.Equal(t, 750, s2.DailyMilkTargetML)
	require.True(t, s2.DarkMode)
}

func TestClearSingleCollection(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	_, err := c.AddFeeding(ctx, model.Feeding{
		Time: time.Now(), Type: model.FeedingBottle, Amount: intPtr(120),
	})
	require.NoError(t, err)
	_, err = c.AddDiaper(ctx, model.Diaper{Time: time.Now(), HasPee: true, Level: 1})
	require.NoError(t, err)

	require.NoError(t, c.Clear(ctx, model.CollectionFeedings))
	require.Empty(t, c.ListFeedings(tracker.PeriodAll))
	require.Len(t, c.ListDiapers(tracker.PeriodAll), 1)

	require.Error(t, c.Clear(ctx, "not_a_collection"))
}

func TestClearAll(t *testing.T) {
	t.Parallel()
	c := newPrimary(t, testConfig(t))
	ctx := context.Background()

	_, err := c.AddFeeding(ctx, model.Feeding{
		Time: time.Now(), Type: model.FeedingBottle, Amount: intPtr(120),
	})
	require.NoError(t, err)
	_, err = c.AddDiaper(ctx, model.Diaper{Time: time.Now(), HasPee: true, Level: 1})
	require.NoError(t, err)

	require.NoError(t, c.ClearAll(ctx))
	require.Empty(t, c.ListFeedings(tracker.PeriodAll))
	require.Empty(t, c.ListDiapers(tracker.PeriodAll))
}
