// Package occupancy runs the background process that turns the live
// seat map into the append-only sample history the analytics views are
// built from.
package occupancy

import (
	"context"
	"log"
	"math"
	"time"
)

// DefaultSampleInterval is how often a sample is recorded when no
// interval is configured.
const DefaultSampleInterval = 5 * time.Minute

// SeatCounter reports how many seats exist and how many are booked.
// Implemented by repository.SeatRepo.
type SeatCounter interface {
	CountByStatus(ctx context.Context) (total, booked int, err error)
}

// SampleWriter appends one occupancy reading.  Implemented by
// repository.OccupancyRepo.
type SampleWriter interface {
	Insert(ctx context.Context, recordedAt time.Time, percentage int) error
}

// Sampler periodically records the share of booked seats.  A failed
// sample is logged and skipped; the loop keeps running.
type Sampler struct {
	seats    SeatCounter
	samples  SampleWriter
	interval time.Duration
	now      func() time.Time
}

// NewSampler constructs a Sampler.  interval <= 0 falls back to
// DefaultSampleInterval.
func NewSampler(seats SeatCounter, samples SampleWriter, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{seats: seats, samples: samples, interval: interval, now: func() time.Time { return time.Now().UTC() }}
}

// Run records samples on a fixed period until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Printf("sampler: recording occupancy every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sampler: stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			if _, err := s.SampleOnce(ctx); err != nil {
				log.Printf("sampler: record failed: %v", err)
			}
		}
	}
}

// SampleOnce reads the current seat counts and appends one sample.
// Returns the recorded percentage.
func (s *Sampler) SampleOnce(ctx context.Context) (int, error) {
	total, booked, err := s.seats.CountByStatus(ctx)
	if err != nil {
		return 0, err
	}
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(booked) / float64(total)))
	}
	if err := s.samples.Insert(ctx, s.now(), pct); err != nil {
		return 0, err
	}
	return pct, nil
}
