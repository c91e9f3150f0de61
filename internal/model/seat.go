package model

import "time"

// Seat status values.  A seat is either free or booked; there are no
// other resting states.  Transitions always go through the reservation
// engine so the booking fields stay consistent with the status.
const (
	SeatFree   = "FREE"
	SeatBooked = "BOOKED"
)

// Seat describes a physical seat in the reading room.  Seats are
// seeded once and never deleted; only their booking state changes.
//
// Fields:
//  ID         – primary key identifier.
//  SeatNumber – display position, unique within the room.
//  Status     – FREE or BOOKED.
//  BookedBy   – user holding the seat; nil when free.
//  BookedAt   – when the booking was made; nil when free.
//  ExpiresAt  – BookedAt plus the reservation TTL; nil when free.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
	ID         uint64     // seats.id
	SeatNumber uint32     // seats.seat_number
	Status     string     // seats.status
	BookedBy   *uint64    // seats.booked_by (nullable)
	BookedAt   *time.Time // seats.booked_at (nullable)
	ExpiresAt  *time.Time // seats.expires_at (nullable)
	CreatedAt  time.Time  // seats.created_at
	UpdatedAt  time.Time  // seats.updated_at
}

// IsBooked reports whether the seat is currently booked.
func (s *Seat) IsBooked() bool { return s.Status == SeatBooked }

// BookedByUser reports whether the seat is booked by the given user.
func (s *Seat) BookedByUser(userID uint64) bool {
	return s.Status == SeatBooked && s.BookedBy != nil && *s.BookedBy == userID
}
