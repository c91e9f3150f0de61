package analytics

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// at builds a sample recorded at the given hour on a fixed reference
// day.  dayOffset shifts the calendar day so multi-day averages can be
// exercised.
func at(dayOffset, hour, pct int) model.OccupancySample {
	base := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // a Monday
	return model.OccupancySample{
		RecordedAt:          base.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour),
		OccupancyPercentage: pct,
	}
}

func TestHourlyAveragesOrdersQuietestFirst(t *testing.T) {
	samples := []model.OccupancySample{
		at(0, 9, 20), at(1, 9, 40), // hour 9 averages 30
		at(0, 14, 80), at(1, 14, 90), // hour 14 averages 85
		at(0, 11, 45),
	}
	out, err := HourlyAverages(context.Background(), samples)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 9, out[0].Hour)
	assert.InDelta(t, 30.0, out[0].Average, 1e-9)
	assert.Equal(t, 2, out[0].Samples)

	assert.Equal(t, 11, out[1].Hour)
	assert.Equal(t, 14, out[2].Hour)
}

func TestHourlyAveragesSkipsEmptyHours(t *testing.T) {
	out, err := HourlyAverages(context.Background(), []model.OccupancySample{at(0, 7, 10)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 7, out[0].Hour)
}

func TestHourlyAveragesDeterministicUnderShuffle(t *testing.T) {
	var samples []model.OccupancySample
	for d := 0; d < 5; d++ {
		for h := 8; h < 20; h++ {
			samples = append(samples, at(d, h, (d*7+h*3)%100))
		}
	}
	want, err := HourlyAverages(context.Background(), samples)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]model.OccupancySample, len(samples))
		copy(shuffled, samples)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := HourlyAverages(context.Background(), shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestHourlyAveragesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := HourlyAverages(ctx, []model.OccupancySample{at(0, 9, 10)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuietHoursBelowThreshold(t *testing.T) {
	samples := []model.OccupancySample{
		at(0, 9, 30), at(0, 10, 20), at(0, 11, 45), at(0, 14, 38), at(0, 15, 90),
	}
	hourly, err := HourlyAverages(context.Background(), samples)
	require.NoError(t, err)

	assert.Equal(t, []string{"9 AM-11 AM", "2 PM-3 PM"}, QuietHours(hourly))
}

func TestQuietHoursFallbackWhenNothingQuiet(t *testing.T) {
	// Every hour is at or above the threshold, so the three lowest win.
	samples := []model.OccupancySample{
		at(0, 2, 41), at(0, 3, 42), at(0, 20, 43), at(0, 12, 99), at(0, 13, 98),
	}
	hourly, err := HourlyAverages(context.Background(), samples)
	require.NoError(t, err)

	assert.Equal(t, []string{"2 AM-4 AM", "8 PM-9 PM"}, QuietHours(hourly))
}

func TestQuietHoursEmptyInput(t *testing.T) {
	assert.Empty(t, QuietHours(nil))
}

func TestQuietHoursAllDayMergesToSingleRange(t *testing.T) {
	var samples []model.OccupancySample
	for h := 0; h < 24; h++ {
		samples = append(samples, at(0, h, 5))
	}
	hourly, err := HourlyAverages(context.Background(), samples)
	require.NoError(t, err)

	// End of the hour-23 range wraps to midnight.
	assert.Equal(t, []string{"12 AM-12 AM"}, QuietHours(hourly))
}

func TestQuietHoursThresholdIsExclusive(t *testing.T) {
	hourly := []HourlyAverage{
		{Hour: 8, Average: 39.9, Samples: 1},
		{Hour: 9, Average: 40.0, Samples: 1},
	}
	assert.Equal(t, []string{"8 AM-9 AM"}, QuietHours(hourly))
}

func TestFmtHourLabels(t *testing.T) {
	cases := map[int]string{
		0:  "12 AM",
		1:  "1 AM",
		11: "11 AM",
		12: "12 PM",
		13: "1 PM",
		23: "11 PM",
		24: "12 AM",
	}
	for h, want := range cases {
		assert.Equal(t, want, fmtHour(h), "hour %d", h)
	}
}

func TestHourlyTrendChronologicalAndRounded(t *testing.T) {
	samples := []model.OccupancySample{
		at(0, 10, 33), at(0, 10, 34), // avg 33.5, rounds to 34
		at(0, 8, 12),
	}
	out, err := HourlyTrend(context.Background(), samples)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, TrendPoint{Hour: "08:00", Occupancy: 12}, out[0])
	assert.Equal(t, TrendPoint{Hour: "10:00", Occupancy: 34}, out[1])
}

func TestHourlyTrendEmpty(t *testing.T) {
	out, err := HourlyTrend(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDailyAveragesKeepChronologicalDayOrder(t *testing.T) {
	samples := []model.OccupancySample{
		at(0, 10, 40), at(0, 12, 60), // Mon avg 50
		at(1, 10, 30), // Tue
		at(2, 10, 71), // Wed
	}
	out, err := DailyAverages(context.Background(), samples)
	require.NoError(t, err)

	assert.Equal(t, []DailyAverage{
		{Day: "Mon", Occupancy: 50},
		{Day: "Tue", Occupancy: 30},
		{Day: "Wed", Occupancy: 71},
	}, out)
}
