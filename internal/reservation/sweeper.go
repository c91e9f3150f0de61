package reservation

import (
	"context"
	"log"
	"time"
)

// DefaultSweepInterval is how often the sweeper scans for expired
// bookings when no interval is configured.
const DefaultSweepInterval = 30 * time.Second

// Sweeper periodically reclaims seats whose reservations have run out,
// so no seat stays booked past its expiry even when nobody is looking
// at it.  One seat failing to expire does not block the others, and
// re-running over an already-freed seat is a no-op.
type Sweeper struct {
	engine   *Engine
	seats    SeatStore
	clock    Clock
	interval time.Duration
}

// NewSweeper constructs a Sweeper.  interval <= 0 falls back to
// DefaultSweepInterval; clock nil falls back to the system clock.
func NewSweeper(engine *Engine, seats SeatStore, clock Clock, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Sweeper{engine: engine, seats: seats, clock: clock, interval: interval}
}

// Run sweeps on a fixed period until ctx is cancelled.  It is meant to
// be launched as a goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Printf("sweeper: running every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				log.Printf("sweeper: scan failed: %v", err)
			}
		}
	}
}

// SweepOnce enumerates booked seats whose expiry has passed and expires
// each one.  Per-seat failures are logged and skipped so a transient
// store error on one seat cannot delay the rest.  Returns how many
// seats this run actually freed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	expired, err := s.seats.ListExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	freed := 0
	for _, seat := range expired {
		ok, err := s.engine.Expire(ctx, seat)
		if err != nil {
			log.Printf("sweeper: expire seat %d failed: %v", seat.SeatNumber, err)
			continue
		}
		if ok {
			freed++
		}
	}
	if freed > 0 {
		log.Printf("sweeper: freed %d expired seat(s)", freed)
	}
	return freed, nil
}
