// Package queue defines message payloads exchanged over the message broker
// and the background consumer that keeps subscribers current.
package queue

// Seat change kinds carried in SeatChangedEvent.Change.
const (
	ChangeBooked   = "booked"
	ChangeReleased = "released"
	ChangeExpired  = "expired"
)

// SeatChangedEvent is published whenever a seat transitions between
// FREE and BOOKED.  It is a signal, not a source of truth: delivery is
// at-least-once and ordering across seats is not guaranteed, so
// consumers re-read current seat state instead of trusting the payload.
type SeatChangedEvent struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber uint32 `json:"seat_number"`
	Change     string `json:"change"`
	Status     string `json:"status"`
	ChangedAt  string `json:"changed_at"`
}
