// Package analytics turns a raw time series of occupancy samples into
// derived views: per-hour and per-day averages, and quiet-hour
// recommendations built by merging contiguous low-occupancy hours into
// ranges.  Everything here is pure (no I/O, no shared state) so the
// same input always yields the same output.  Callers own the store
// query and pass samples in; a context is threaded through the
// aggregation loops so a large window can be abandoned mid-way.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// LowOccupancyThreshold is the average occupancy (percent) below which
// an hour counts as quiet.
const LowOccupancyThreshold = 40.0

// fallbackHourCount is how many of the lowest-occupancy hours are
// recommended when no hour is below the threshold.
const fallbackHourCount = 3

// HourlyAverage is the mean occupancy for one hour of the day (0–23)
// across every sampled day.
type HourlyAverage struct {
	Hour    int     `json:"hour"`
	Average float64 `json:"average"`
	Samples int     `json:"samples"`
}

// TrendPoint is one chronological point of a single day's occupancy
// curve, labelled "HH:00".
type TrendPoint struct {
	Hour      string `json:"hour"`
	Occupancy int    `json:"occupancy"`
}

// DailyAverage is the mean occupancy for one day-of-week label within
// the queried window.
type DailyAverage struct {
	Day       string `json:"day"`
	Occupancy int    `json:"occupancy"`
}

// orderSamples returns the samples sorted ascending by RecordedAt.
// Grouping below walks samples in this order, so shuffled input
// produces identical aggregates.  The input slice is not modified.
func orderSamples(samples []model.OccupancySample) []model.OccupancySample {
	ordered := make([]model.OccupancySample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})
	return ordered
}

// HourlyAverages groups samples by local hour-of-day regardless of
// calendar day and averages the occupancy per hour.  Hours with no
// samples are absent, never zero-filled.  The result is ordered
// ascending by average (quietest first), ties keeping the order in
// which the hour was first seen in the time-ordered samples.
func HourlyAverages(ctx context.Context, samples []model.OccupancySample) ([]HourlyAverage, error) {
	ordered := orderSamples(samples)
	sums := make(map[int]int, 24)
	counts := make(map[int]int, 24)
	var seen []int
	for i, s := range ordered {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		h := s.RecordedAt.Hour()
		if counts[h] == 0 {
			seen = append(seen, h)
		}
		sums[h] += s.OccupancyPercentage
		counts[h]++
	}
	out := make([]HourlyAverage, 0, len(seen))
	for _, h := range seen {
		out = append(out, HourlyAverage{
			Hour:    h,
			Average: float64(sums[h]) / float64(counts[h]),
			Samples: counts[h],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Average < out[j].Average })
	return out, nil
}

// HourlyTrend groups samples by calendar hour within a single day and
// returns one rounded point per hour in chronological order.  Used for
// the today-trend chart; the caller restricts the query window to one
// day.
func HourlyTrend(ctx context.Context, samples []model.OccupancySample) ([]TrendPoint, error) {
	sums := make(map[int]int, 24)
	counts := make(map[int]int, 24)
	for i, s := range samples {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		h := s.RecordedAt.Hour()
		sums[h] += s.OccupancyPercentage
		counts[h]++
	}
	out := make([]TrendPoint, 0, len(counts))
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		out = append(out, TrendPoint{
			Hour:      fmt.Sprintf("%02d:00", h),
			Occupancy: int(math.Round(float64(sums[h]) / float64(counts[h]))),
		})
	}
	return out, nil
}

// DailyAverages groups samples by day-of-week label (Mon, Tue, …) and
// averages per day.  Days appear in the order they were first recorded
// within the window, which for a trailing 7-day query reads as the
// week in chronological order.  No range merging is applied.
func DailyAverages(ctx context.Context, samples []model.OccupancySample) ([]DailyAverage, error) {
	ordered := orderSamples(samples)
	sums := make(map[string]int, 7)
	counts := make(map[string]int, 7)
	var seen []string
	for i, s := range ordered {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		day := s.RecordedAt.Format("Mon")
		if counts[day] == 0 {
			seen = append(seen, day)
		}
		sums[day] += s.OccupancyPercentage
		counts[day]++
	}
	out := make([]DailyAverage, 0, len(seen))
	for _, day := range seen {
		out = append(out, DailyAverage{
			Day:       day,
			Occupancy: int(math.Round(float64(sums[day]) / float64(counts[day]))),
		})
	}
	return out, nil
}

// QuietHours recommends when to visit.  Hours averaging below
// LowOccupancyThreshold qualify; when none do, the three quietest
// hours overall are taken instead (the input is already ordered
// quietest-first, so ties resolve to whichever hour was seen first).
// The selected hours are sorted and consecutive hours merged into
// ranges, each rendered as a half-open interval: hours 9 and 10
// together read "9 AM-11 AM".  An empty input yields an empty result.
func QuietHours(hourlyAverages []HourlyAverage) []string {
	var hours []int
	for _, h := range hourlyAverages {
		if h.Average < LowOccupancyThreshold {
			hours = append(hours, h.Hour)
		}
	}
	if len(hours) == 0 {
		n := fallbackHourCount
		if n > len(hourlyAverages) {
			n = len(hourlyAverages)
		}
		for _, h := range hourlyAverages[:n] {
			hours = append(hours, h.Hour)
		}
	}
	if len(hours) == 0 {
		return nil
	}
	sort.Ints(hours)
	return formatRanges(hours)
}

// formatRanges merges consecutive hour numbers into closed ranges and
// renders each as "start-end+1" in 12-hour clock labels.  hours must be
// sorted ascending and non-empty.
func formatRanges(hours []int) []string {
	var ranges []string
	start, end := hours[0], hours[0]
	for _, h := range hours[1:] {
		if h == end+1 {
			end = h
			continue
		}
		ranges = append(ranges, fmtHour(start)+"-"+fmtHour(end+1))
		start, end = h, h
	}
	ranges = append(ranges, fmtHour(start)+"-"+fmtHour(end+1))
	return ranges
}

// fmtHour renders an hour number as a 12-hour clock label with no
// leading zero: 0 → "12 AM", 12 → "12 PM", 23 → "11 PM".  Values of 24
// (from rendering the end of an hour-23 range) wrap back to midnight.
func fmtHour(h int) string {
	h = h % 24
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}
