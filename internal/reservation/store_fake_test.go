package reservation

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
)

// fakeClock returns a fixed instant that tests advance explicitly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock { return &fakeClock{now: start} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeSeatStore is an in-memory SeatStore with the same conditional
// write semantics as the SQL implementation: every mutation checks the
// current row state under the lock and reports the same sentinel errors.
type fakeSeatStore struct {
	mu    sync.Mutex
	seats map[uint64]*model.Seat

	failExpire map[uint64]error // seat id to forced ExpireBefore error
}

func newFakeSeatStore(ids ...uint64) *fakeSeatStore {
	s := &fakeSeatStore{seats: make(map[uint64]*model.Seat), failExpire: make(map[uint64]error)}
	for i, id := range ids {
		s.seats[id] = &model.Seat{ID: id, SeatNumber: uint32(i + 1), Status: model.SeatFree}
	}
	return s
}

func (s *fakeSeatStore) GetByID(_ context.Context, id uint64) (*model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[id]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	cp := *seat
	return &cp, nil
}

func (s *fakeSeatStore) List(_ context.Context) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Seat, 0, len(s.seats))
	for _, seat := range s.seats {
		out = append(out, *seat)
	}
	return out, nil
}

func (s *fakeSeatStore) ListExpired(_ context.Context, now time.Time) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Seat
	for _, seat := range s.seats {
		if seat.Status == model.SeatBooked && seat.ExpiresAt != nil && !seat.ExpiresAt.After(now) {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (s *fakeSeatStore) Book(_ context.Context, seatID, userID uint64, bookedAt, expiresAt time.Time) (*model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[seatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if seat.Status != model.SeatFree {
		return nil, repository.ErrConflict
	}
	seat.Status = model.SeatBooked
	seat.BookedBy = &userID
	ba, ea := bookedAt, expiresAt
	seat.BookedAt, seat.ExpiresAt = &ba, &ea
	cp := *seat
	return &cp, nil
}

func (s *fakeSeatStore) Release(_ context.Context, seatID uint64) (*model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[seatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if seat.Status != model.SeatBooked {
		return nil, repository.ErrNotBooked
	}
	s.clearLocked(seat)
	cp := *seat
	return &cp, nil
}

func (s *fakeSeatStore) ReleaseOwned(_ context.Context, seatID, userID uint64) (*model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[seatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if seat.Status != model.SeatBooked {
		return nil, repository.ErrNotBooked
	}
	if seat.BookedBy == nil || *seat.BookedBy != userID {
		return nil, repository.ErrForbidden
	}
	s.clearLocked(seat)
	cp := *seat
	return &cp, nil
}

func (s *fakeSeatStore) ExpireBefore(_ context.Context, seatID uint64, expiresAt, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failExpire[seatID]; err != nil {
		return false, err
	}
	seat, ok := s.seats[seatID]
	if !ok {
		return false, nil
	}
	if seat.Status != model.SeatBooked || seat.ExpiresAt == nil {
		return false, nil
	}
	if !seat.ExpiresAt.Equal(expiresAt) || seat.ExpiresAt.After(now) {
		return false, nil
	}
	s.clearLocked(seat)
	return true, nil
}

func (s *fakeSeatStore) clearLocked(seat *model.Seat) {
	seat.Status = model.SeatFree
	seat.BookedBy, seat.BookedAt, seat.ExpiresAt = nil, nil, nil
}

// recordingPublisher captures emitted events; Fail makes every publish
// return the given error.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.SeatChangedEvent
	Fail   error
}

func (p *recordingPublisher) PublishSeatChanged(_ context.Context, ev queue.SeatChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Events() []queue.SeatChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.SeatChangedEvent, len(p.events))
	copy(out, p.events)
	return out
}
