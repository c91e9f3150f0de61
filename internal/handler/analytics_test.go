package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// fakeSamples records which query the handler issued and returns a
// canned sample set.
type fakeSamples struct {
	all       []model.OccupancySample
	ranged    []model.OccupancySample
	err       error
	allCalls  int
	lastFrom  time.Time
	lastTo    time.Time
	rangeCall bool
}

func (f *fakeSamples) QueryAll(context.Context) ([]model.OccupancySample, error) {
	f.allCalls++
	return f.all, f.err
}

func (f *fakeSamples) QueryRange(_ context.Context, from, to time.Time) ([]model.OccupancySample, error) {
	f.rangeCall = true
	f.lastFrom, f.lastTo = from, to
	return f.ranged, f.err
}

func get(t *testing.T, h echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func sampleAt(day int, hour, pct int) model.OccupancySample {
	base := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	return model.OccupancySample{
		RecordedAt:          base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour),
		OccupancyPercentage: pct,
	}
}

func TestBestTimesUsesFullHistory(t *testing.T) {
	src := &fakeSamples{all: []model.OccupancySample{
		// Two years apart; both must contribute to the rollup.
		sampleAt(0, 9, 20),
		sampleAt(-730, 9, 30),
		sampleAt(0, 15, 90),
	}}
	h := NewAnalyticsHandler(src)

	rec := get(t, h.BestTimes, "/v1/analytics/best-times")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, src.allCalls)
	assert.False(t, src.rangeCall, "best-times must not window the history")

	var body struct {
		QuietHours []string `json:"quiet_hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"9 AM-10 AM"}, body.QuietHours)
}

func TestBestTimesEmptyHistory(t *testing.T) {
	h := NewAnalyticsHandler(&fakeSamples{})

	rec := get(t, h.BestTimes, "/v1/analytics/best-times")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		QuietHours []string `json:"quiet_hours"`
		Message    string   `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.QuietHours)
	assert.Equal(t, "not enough data yet", body.Message)
}

func TestBestTimesStoreError(t *testing.T) {
	h := NewAnalyticsHandler(&fakeSamples{err: errors.New("db down")})
	rec := get(t, h.BestTimes, "/v1/analytics/best-times")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTodayQueriesSinceLocalMidnight(t *testing.T) {
	src := &fakeSamples{}
	h := NewAnalyticsHandler(src)

	rec := get(t, h.Today, "/v1/analytics/today")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, src.rangeCall)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, midnight, src.lastFrom)
	assert.WithinDuration(t, now, src.lastTo, time.Minute)
}

func TestWeeklyQueriesTrailingSevenDays(t *testing.T) {
	src := &fakeSamples{ranged: []model.OccupancySample{sampleAt(0, 10, 50)}}
	h := NewAnalyticsHandler(src)

	rec := get(t, h.Weekly, "/v1/analytics/weekly")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, src.rangeCall)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), src.lastFrom, time.Minute)

	var body struct {
		Days []struct {
			Day       string `json:"day"`
			Occupancy int    `json:"occupancy"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Days, 1)
	assert.Equal(t, "Mon", body.Days[0].Day)
	assert.Equal(t, 50, body.Days[0].Occupancy)
}
