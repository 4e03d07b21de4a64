package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/store"
	"github.com/lucasgonzalez939/babytrack/tests/testutil"
)

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func boolPtr(v bool) *bool           { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func bottleFeeding(at time.Time) model.Feeding {
	return model.Feeding{
		Time:         at,
		Type:         model.FeedingBottle,
		Amount:       intPtr(120),
		NextInterval: 3,
		Timezone:     "UTC",
	}
}

func TestAddFeedingDerivesIndexFields(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	id, err := s.AddFeeding(ctx, bottleFeeding(at))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	f, err := s.GetFeeding(ctx, id)
	require.NoError(t, err)
	require.Equal(t, at.UnixMilli(), f.Timestamp)
	require.Equal(t, "2024-03-15", f.Date)
	require.Equal(t, "2024-03", f.YearMonth)
	require.True(t, f.Time.Equal(at))
	require.False(t, f.CreatedAt.IsZero())
}

func TestAddFeedingRejectsInvalid(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	// Bottle feeding without an amount.
	_, err := s.AddFeeding(ctx, model.Feeding{
		Time: time.Now(), Type: model.FeedingBottle, NextInterval: 3,
	})
	require.Error(t, err)
}

func TestGetFeedingNotFound(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)

	_, err := s.GetFeeding(context.Background(), 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetFeedingsTimestampRangeInclusive(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
	}
	for _, at := range times {
		_, err := s.AddFeeding(ctx, bottleFeeding(at))
		require.NoError(t, err)
	}

	// Both endpoints are inclusive: a record exactly at the start or the
	// end of the range is returned.
	got, err := s.GetFeedings(ctx, store.FeedingFilter{QueryOptions: store.QueryOptions{
		StartDate: timePtr(times[0]),
		EndDate:   timePtr(times[2]),
	}})
	require.NoError(t, err)
	require.Len(t, got, 3)

	got, err = s.GetFeedings(ctx, store.FeedingFilter{QueryOptions: store.QueryOptions{
		StartDate: timePtr(times[1]),
		EndDate:   timePtr(times[1]),
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Time.Equal(times[1]))
}

func TestGetFeedingsByDateKey(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddFeeding(ctx, bottleFeeding(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = s.AddFeeding(ctx, bottleFeeding(time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = s.AddFeeding(ctx, bottleFeeding(time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	got, err := s.GetFeedings(ctx, store.FeedingFilter{QueryOptions: store.QueryOptions{
		Date: strPtr("2024-03-15"),
	}})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = s.GetFeedings(ctx, store.FeedingFilter{QueryOptions: store.QueryOptions{
		YearMonth: strPtr("2024-03"),
	}})
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestGetFeedingsOrderAndLimit(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.AddFeeding(ctx, bottleFeeding(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	// Default order is newest first.
	got, err := s.GetFeedings(ctx, store.FeedingFilter{})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i-1].Timestamp, got[i].Timestamp)
	}

	got, err = s.GetFeedings(ctx, store.FeedingFilter{QueryOptions: store.QueryOptions{
		Ascending: true, Limit: 2,
	}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].Time.Equal(base))
}

func TestGetFeedingsByType(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddFeeding(ctx, bottleFeeding(time.Now()))
	require.NoError(t, err)
	_, err = s.AddFeeding(ctx, model.Feeding{
		Time: time.Now(), Type: model.FeedingBreast, Duration: intPtr(20), NextInterval: 3,
	})
	require.NoError(t, err)

	got, err := s.GetFeedings(ctx, store.FeedingFilter{Type: strPtr(model.FeedingBreast)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, model.FeedingBreast, got[0].Type)
}

func TestUpdateFeedingRederivesIndexFields(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.AddFeeding(ctx, bottleFeeding(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	moved := time.Date(2024, 4, 2, 7, 45, 0, 0, time.UTC)
	err = s.UpdateFeeding(ctx, id, model.FeedingPatch{Time: &moved, Amount: intPtr(90)})
	require.NoError(t, err)

	f, err := s.GetFeeding(ctx, id)
	require.NoError(t, err)
	require.True(t, f.Time.Equal(moved))
	require.Equal(t, moved.UnixMilli(), f.Timestamp)
	require.Equal(t, "2024-04-02", f.Date)
	require.Equal(t, "2024-04", f.YearMonth)
	require.Equal(t, 90, *f.Amount)
}

func TestUpdateFeedingMissing(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.UpdateFeeding(ctx, 404, model.FeedingPatch{Amount: intPtr(50)})
	require.ErrorIs(t, err, store.ErrNotFound)

	// An empty patch on a missing id still reports not found.
	err = s.UpdateFeeding(ctx, 404, model.FeedingPatch{})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteFeedingIdempotent(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.AddFeeding(ctx, bottleFeeding(time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.DeleteFeeding(ctx, id))
	require.NoError(t, s.DeleteFeeding(ctx, id))

	_, err = s.GetFeeding(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddDiaperRejectsEmptyChange(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddDiaper(ctx, model.Diaper{Time: time.Now(), Level: 2})
	require.Error(t, err)
}

func TestGetDiapersByContents(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddDiaper(ctx, model.Diaper{Time: time.Now(), HasPee: true, Level: 1})
	require.NoError(t, err)
	_, err = s.AddDiaper(ctx, model.Diaper{Time: time.Now(), HasPoop: true, Level: 2})
	require.NoError(t, err)
	_, err = s.AddDiaper(ctx, model.Diaper{Time: time.Now(), HasPee: true, HasPoop: true, Level: 3})
	require.NoError(t, err)

	got, err := s.GetDiapers(ctx, store.DiaperFilter{HasPoop: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = s.GetDiapers(ctx, store.DiaperFilter{HasPee: boolPtr(true), HasPoop: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 3, got[0].Level)
}

func TestUpdateMedicineClearNextDose(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	next := time.Now().Add(8 * time.Hour).UTC()
	id, err := s.AddMedicine(ctx, model.Medicine{
		Time:          time.Now(),
		Name:          "paracetamol",
		Dose:          "2.5 ml",
		IntervalHours: 8,
		Active:        true,
		NextDose:      &next,
	})
	require.NoError(t, err)

	// A patch without ClearNextDose leaves the reminder untouched.
	err = s.UpdateMedicine(ctx, id, model.MedicinePatch{Notes: strPtr("with food")})
	require.NoError(t, err)
	m, err := s.GetMedicine(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m.NextDose)

	err = s.UpdateMedicine(ctx, id, model.MedicinePatch{Active: boolPtr(false), ClearNextDose: true})
	require.NoError(t, err)
	m, err = s.GetMedicine(ctx, id)
	require.NoError(t, err)
	require.Nil(t, m.NextDose)
	require.False(t, m.Active)
}

func TestGetMedicinesActiveFilter(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddMedicine(ctx, model.Medicine{Time: time.Now(), Name: "a", IntervalHours: 6, Active: true})
	require.NoError(t, err)
	_, err = s.AddMedicine(ctx, model.Medicine{Time: time.Now(), Name: "b", Active: false})
	require.NoError(t, err)

	got, err := s.GetMedicines(ctx, store.MedicineFilter{Active: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].Name)
}

func TestJournalTagsRoundTrip(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.AddJournalEntry(ctx, model.JournalEntry{
		Time:     time.Now(),
		Category: model.JournalMilestone,
		Title:    "first smile",
		Tags:     []string{"social", "firsts"},
	})
	require.NoError(t, err)

	j, err := s.GetJournalEntry(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"social", "firsts"}, j.Tags)
}

func TestMetadataRoundTrip(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	var missing string
	found, err := s.GetMetadata(ctx, "absent", &missing)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.SetMetadata(ctx, "timezone", "Europe/Madrid"))
	require.NoError(t, s.SetMetadata(ctx, "feeding_interval_hours", 2.5))

	var tz string
	found, err = s.GetMetadata(ctx, "timezone", &tz)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Europe/Madrid", tz)

	// Upsert overwrites.
	require.NoError(t, s.SetMetadata(ctx, "timezone", "UTC"))
	_, err = s.GetMetadata(ctx, "timezone", &tz)
	require.NoError(t, err)
	require.Equal(t, "UTC", tz)

	var interval float64
	found, err = s.GetMetadata(ctx, "feeding_interval_hours", &interval)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2.5, interval)
}

func TestClearAndClearAll(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddFeeding(ctx, bottleFeeding(time.Now()))
	require.NoError(t, err)
	_, err = s.AddDiaper(ctx, model.Diaper{Time: time.Now(), HasPee: true, Level: 1})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, model.CollectionFeedings))
	feedings, err := s.GetFeedings(ctx, store.FeedingFilter{})
	require.NoError(t, err)
	require.Empty(t, feedings)
	diapers, err := s.GetDiapers(ctx, store.DiaperFilter{})
	require.NoError(t, err)
	require.Len(t, diapers, 1)

	require.Error(t, s.Clear(ctx, "not_a_collection"))

	require.NoError(t, s.ClearAll(ctx))
	diapers, err = s.GetDiapers(ctx, store.DiaperFilter{})
	require.NoError(t, err)
	require.Empty(t, diapers)
}

func TestOpenStoreBadPath(t *testing.T) {
	t.Parallel()

	_, err := store.NewSQLiteStore("/dev/null/nope/tracker.db")
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrStorageUnavailable))
}
