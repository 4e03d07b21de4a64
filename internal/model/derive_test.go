package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeIndex(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	timestamp, date, yearMonth := TimeIndex(at)

	require.Equal(t, at.UnixMilli(), timestamp)
	require.Equal(t, "2024-03-15", date)
	require.Equal(t, "2024-03", yearMonth)
}

func TestTimeIndexNormalizesToUTC(t *testing.T) {
	t.Parallel()

	// 23:30 in UTC-5 is 04:30 the next day in UTC; the keys must follow
	// the UTC instant, not the local wall clock.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2024, 3, 31, 23, 30, 0, 0, loc)

	_, date, yearMonth := TimeIndex(local)
	require.Equal(t, "2024-04-01", date)
	require.Equal(t, "2024-04", yearMonth)

	// Same instant expressed in UTC produces identical keys.
	ts1, d1, ym1 := TimeIndex(local)
	ts2, d2, ym2 := TimeIndex(local.UTC())
	require.Equal(t, ts1, ts2)
	require.Equal(t, d1, d2)
	require.Equal(t, ym1, ym2)
}

func TestFeedingValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	amount := 120
	duration := 15

	valid := Feeding{Time: now, Type: FeedingBottle, Amount: &amount, NextInterval: 3}
	require.NoError(t, valid.Validate())

	breast := Feeding{Time: now, Type: FeedingBreast, Duration: &duration, NextInterval: 2.5}
	require.NoError(t, breast.Validate())

	require.Error(t, Feeding{Time: now, Type: FeedingBottle, NextInterval: 3}.Validate(),
		"bottle without amount")
	require.Error(t, Feeding{Time: now, Type: FeedingBreast, NextInterval: 3}.Validate(),
		"breast without duration")
	require.Error(t, Feeding{Time: now, Type: FeedingBottle, Amount: &amount, Duration: &duration, NextInterval: 3}.Validate(),
		"bottle carrying a duration")
	require.Error(t, Feeding{Time: now, Type: "solid", Amount: &amount, NextInterval: 3}.Validate(),
		"unknown type")
	require.Error(t, Feeding{Time: now, Type: FeedingBottle, Amount: &amount}.Validate(),
		"zero interval")
	require.Error(t, Feeding{Type: FeedingBottle, Amount: &amount, NextInterval: 3}.Validate(),
		"zero time")
}

func TestDiaperValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()

	require.NoError(t, Diaper{Time: now, HasPee: true, Level: 2}.Validate())
	require.NoError(t, Diaper{Time: now, HasPee: true, HasPoop: true, Level: 3}.Validate())

	require.Error(t, Diaper{Time: now, Level: 1}.Validate(), "neither pee nor poop")
	require.Error(t, Diaper{Time: now, HasPee: true, Level: 0}.Validate(), "level below range")
	require.Error(t, Diaper{Time: now, HasPoop: true, Level: 4}.Validate(), "level above range")
}

func TestMeasurementValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	weight := 4.2
	height := 55.0

	require.NoError(t, Measurement{Time: now, Weight: &weight}.Validate())
	require.NoError(t, Measurement{Time: now, Height: &height}.Validate())
	require.NoError(t, Measurement{Time: now, Weight: &weight, Height: &height}.Validate())

	require.Error(t, Measurement{Time: now}.Validate(), "neither weight nor height")
}
