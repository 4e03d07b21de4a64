package portability_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/portability"
	"github.com/lucasgonzalez939/babytrack/internal/tracker"
)

func newController(t *testing.T) *tracker.Controller {
	t.Helper()
	cfg := &model.AppConfig{
		DataDir:              t.TempDir(),
		Database:             "babytrack.db",
		FeedingIntervalHours: 3,
		Timezone:             "UTC",
	}
	c, err := tracker.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, tracker.ModePrimary, c.Mode())
	t.Cleanup(func() { c.Close() })
	return c
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	src := newController(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	_, err := src.AddFeeding(ctx, model.Feeding{
		Time: at, Type: model.FeedingBottle, Amount: intPtr(120), NextInterval: 2.5,
	})
	require.NoError(t, err)
	_, err = src.AddDiaper(ctx, model.Diaper{
		Time: at.Add(time.Hour), HasPee: true, HasPoop: true, Level: 3, Notes: "messy, extra wipes",
	})
	require.NoError(t, err)
	_, err = src.AddMeasurement(ctx, model.Measurement{
		Time: at.Add(2 * time.Hour), Weight: floatPtr(4.25), Height: floatPtr(55.5),
	})
	require.NoError(t, err)
	_, err = src.AddMedicine(ctx, model.Medicine{
		Time: at, Name: "paracetamol", Dose: "2.5 ml", IntervalHours: 8, Active: true,
	})
	require.NoError(t, err)
	_, err = src.AddTemperature(ctx, model.Temperature{
		Time: at, Value: 37.2, Notes: "after nap",
	})
	require.NoError(t, err)
	_, err = src.AddAppointment(ctx, model.Appointment{
		Time: at.Add(48 * time.Hour), Type: model.AppointmentVaccine, Title: "2 month shots", Location: "clinic",
	})
	require.NoError(t, err)
	_, err = src.AddJournalEntry(ctx, model.JournalEntry{
		Time: at, Category: model.JournalMilestone, Title: "first smile",
		Description: "smiled at grandma", Tags: []string{"social", "firsts"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, portability.Export(src, &buf))

	dst := newController(t)
	result, err := portability.Import(ctx, dst, &buf)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Equal(t, 1, result.Imported[model.CollectionFeedings])
	require.Equal(t, 1, result.Imported[model.CollectionDiapers])
	require.Equal(t, 1, result.Imported[model.CollectionMeasurements])
	require.Equal(t, 1, result.Imported[model.CollectionMedicines])
	require.Equal(t, 1, result.Imported[model.CollectionTemperatures])
	require.Equal(t, 1, result.Imported[model.CollectionAppointments])
	require.Equal(t, 1, result.Imported[model.CollectionJournal])

	feedings := dst.ListFeedings(tracker.PeriodAll)
	require.Len(t, feedings, 1)
	require.True(t, feedings[0].Time.Equal(at))
	require.Equal(t, 120, *feedings[0].Amount)
	require.Equal(t, 2.5, feedings[0].NextInterval)

	diapers := dst.ListDiapers(tracker.PeriodAll)
	require.Len(t, diapers, 1)
	require.True(t, diapers[0].HasPee)
	require.True(t, diapers[0].HasPoop)
	require.Equal(t, 3, diapers[0].Level)
	require.Equal(t, "messy, extra wipes", diapers[0].Notes)

	measurements := dst.ListMeasurements(tracker.PeriodAll)
	require.Len(t, measurements, 1)
	require.Equal(t, 4.25, *measurements[0].Weight)
	require.Equal(t, 55.5, *measurements[0].Height)

	medicines := dst.ListMedicines(tracker.PeriodAll)
	require.Len(t, medicines, 1)
	require.Equal(t, "paracetamol", medicines[0].Name)
	require.Equal(t, 8.0, medicines[0].IntervalHours)
	require.True(t, medicines[0].Active)

	journal := dst.ListJournalEntries(tracker.PeriodAll)
	require.Len(t, journal, 1)
	require.Equal(t, []string{"social", "firsts"}, journal[0].Tags)
}

func TestImportSkipsBadRows(t *testing.T) {
	t.Parallel()
	c := newController(t)

	input := strings.Join([]string{
		"record_type,time,type,amount,next_interval,has_pee,level",
		"feeding,2024-03-15T10:30:00Z,bottle,120,3,,",
		"feeding,not-a-time,bottle,120,3,,",
		"gibberish,2024-03-15T10:30:00Z,,,,,",
		"diaper,2024-03-15T11:00:00Z,,,,true,2",
	}, "\n")

	result, err := portability.Import(context.Background(), c, strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported[model.CollectionFeedings])
	require.Equal(t, 1, result.Imported[model.CollectionDiapers])
	require.Len(t, result.Errors, 2)

	require.Len(t, c.ListFeedings(tracker.PeriodAll), 1)
	require.Len(t, c.ListDiapers(tracker.PeriodAll), 1)
}

func TestImportRejectsMissingHeader(t *testing.T) {
	t.Parallel()
	c := newController(t)

	_, err := portability.Import(context.Background(), c, strings.NewReader("1,2,3\n"))
	require.ErrorIs(t, err, portability.ErrParse)
}

func TestImportEmptyInput(t *testing.T) {
	t.Parallel()
	c := newController(t)

	result, err := portability.Import(context.Background(), c, strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, result.Imported)
	require.Empty(t, result.Errors)
}
