// Package reservation owns the seat state machine: it validates and
// applies book, release and expire transitions on top of a store that
// offers per-seat conditional writes.  There is no in-process locking;
// two writers racing on the same seat are serialized by the store's
// guarded updates and the loser observes ErrConflict.
package reservation

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
)

// ReservationTTL is how long a booking lasts before the sweeper may
// reclaim the seat.
const ReservationTTL = 2 * time.Hour

// Principal is the authenticated actor performing an operation.  The
// engine treats it as opaque apart from the id and the role check.
type Principal struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the principal may release seats booked by others.
func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// SeatStore is the persistence surface the engine needs.  Implemented
// by repository.SeatRepo; tests substitute an in-memory fake with the
// same compare-and-set semantics.
type SeatStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Seat, error)
	List(ctx context.Context) ([]model.Seat, error)
	ListExpired(ctx context.Context, now time.Time) ([]model.Seat, error)
	Book(ctx context.Context, seatID, userID uint64, bookedAt, expiresAt time.Time) (*model.Seat, error)
	Release(ctx context.Context, seatID uint64) (*model.Seat, error)
	ReleaseOwned(ctx context.Context, seatID, userID uint64) (*model.Seat, error)
	ExpireBefore(ctx context.Context, seatID uint64, expiresAt, now time.Time) (bool, error)
}

// Publisher emits seat change events.  Failures never fail the seat
// operation itself; the event path is fire-and-forget.
type Publisher interface {
	PublishSeatChanged(ctx context.Context, event queue.SeatChangedEvent) error
}

// Engine applies seat state transitions.
type Engine struct {
	seats SeatStore
	clock Clock
	pub   Publisher
}

// NewEngine constructs an Engine.  clock may be nil, in which case the
// system clock is used; pub may be nil to disable event emission.
func NewEngine(seats SeatStore, clock Clock, pub Publisher) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{seats: seats, clock: clock, pub: pub}
}

// Book transitions a free seat to booked for the principal, with the
// expiry set to now + ReservationTTL.  The underlying write is guarded
// by the seat's free status; when another writer got there first the
// store reports repository.ErrConflict and no retry is attempted here;
// the caller re-reads and decides.
func (e *Engine) Book(ctx context.Context, seatID uint64, p Principal) (*model.Seat, error) {
	now := e.clock.Now()
	seat, err := e.seats.Book(ctx, seatID, p.ID, now, now.Add(ReservationTTL))
	if err != nil {
		return nil, err
	}
	e.emit(ctx, seat, queue.ChangeBooked)
	return seat, nil
}

// Release transitions a booked seat back to free.  Members may only
// release their own seat; admins may release any.  Returns
// repository.ErrForbidden for a non-owner member, repository.ErrNotBooked
// when the seat is already free.
func (e *Engine) Release(ctx context.Context, seatID uint64, p Principal) (*model.Seat, error) {
	var (
		seat *model.Seat
		err  error
	)
	if p.IsAdmin() {
		seat, err = e.seats.Release(ctx, seatID)
	} else {
		seat, err = e.seats.ReleaseOwned(ctx, seatID, p.ID)
	}
	if err != nil {
		return nil, err
	}
	e.emit(ctx, seat, queue.ChangeReleased)
	return seat, nil
}

// Expire frees a booked seat whose observed expiry has passed.  The
// store guard carries both the observed expires_at and the current
// time, so an expire racing a concurrent release or re-book quietly
// affects nothing.  Returns true when this call performed the
// transition.
func (e *Engine) Expire(ctx context.Context, seat model.Seat) (bool, error) {
	if seat.ExpiresAt == nil {
		return false, nil
	}
	now := e.clock.Now()
	if now.Before(*seat.ExpiresAt) {
		return false, nil
	}
	expired, err := e.seats.ExpireBefore(ctx, seat.ID, *seat.ExpiresAt, now)
	if err != nil {
		return false, err
	}
	if expired {
		freed := seat
		freed.Status = model.SeatFree
		freed.BookedBy, freed.BookedAt, freed.ExpiresAt = nil, nil, nil
		e.emit(ctx, &freed, queue.ChangeExpired)
	}
	return expired, nil
}

func (e *Engine) emit(ctx context.Context, seat *model.Seat, change string) {
	if e.pub == nil {
		return
	}
	ev := queue.SeatChangedEvent{
		SeatID:     seat.ID,
		SeatNumber: seat.SeatNumber,
		Change:     change,
		Status:     seat.Status,
		ChangedAt:  e.clock.Now().Format(time.RFC3339),
	}
	if err := e.pub.PublishSeatChanged(ctx, ev); err != nil {
		log.Printf("reservation: publish seat change failed: %v", err)
	}
}
