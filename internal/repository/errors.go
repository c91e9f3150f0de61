// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation engine and handlers to distinguish between different
// failure scenarios without inspecting SQL errors. For example,
// ErrConflict signals that a conditional write lost a race against a
// concurrent writer, while ErrForbidden indicates that the caller is
// not allowed to change a seat booked by someone else.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows. The
// calling operation is fatal; handlers translate this into 404.
var ErrSeatNotFound = errors.New("seat not found")

// ErrConflict is returned when a guarded update affected no rows
// because another writer changed the seat's status first. The caller
// must re-read current state before deciding to retry; it is never
// retried automatically. Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when a principal attempts to release a seat
// booked by a different user without the admin role. Handlers
// translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotBooked is returned when a release is requested for a seat that
// is already free. The transition is a no-op; handlers surface it as
// such rather than as a server error.
var ErrNotBooked = errors.New("seat not booked")
