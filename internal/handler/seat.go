package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
	"github.com/iliyamo/library-seat-reservation/internal/reservation"
)

// SeatHandler exposes the seat map and the book/release operations.
// JWT authentication and role validation have already run by the time
// these methods are invoked.
type SeatHandler struct {
	Engine *reservation.Engine
	Seats  reservation.SeatStore
}

// NewSeatHandler constructs a SeatHandler with the given engine and store.
func NewSeatHandler(engine *reservation.Engine, seats reservation.SeatStore) *SeatHandler {
	if engine == nil || seats == nil {
		panic("nil dependency passed to NewSeatHandler")
	}
	return &SeatHandler{Engine: engine, Seats: seats}
}

// seatResp is the wire shape of a seat.  Booking fields are omitted
// entirely when the seat is free.
type seatResp struct {
	ID         uint64     `json:"id"`
	SeatNumber uint32     `json:"seat_number"`
	Status     string     `json:"status"`
	BookedBy   *uint64    `json:"booked_by,omitempty"`
	BookedAt   *time.Time `json:"booked_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func toSeatResp(s *model.Seat) seatResp {
	return seatResp{
		ID:         s.ID,
		SeatNumber: s.SeatNumber,
		Status:     s.Status,
		BookedBy:   s.BookedBy,
		BookedAt:   s.BookedAt,
		ExpiresAt:  s.ExpiresAt,
	}
}

// List handles GET /v1/seats.  Seats come back ordered by seat_number
// so the client can lay out the grid directly.
func (h *SeatHandler) List(c echo.Context) error {
	seats, err := h.Seats.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]seatResp, 0, len(seats))
	for i := range seats {
		out = append(out, toSeatResp(&seats[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": out})
}

// Book handles POST /v1/seats/:id/book.  Exactly one of two concurrent
// bookings of the same seat succeeds; the loser gets 409 and must
// re-fetch the seat map before trying again. There is no server-side
// retry.
func (h *SeatHandler) Book(c echo.Context) error {
	p, err := principalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}

	seat, err := h.Engine.Book(c.Request().Context(), seatID, p)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed, try again"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"seat": toSeatResp(seat)})
}

// Release handles POST /v1/seats/:id/release.  Members may release
// their own seat; admins may release anyone's.
func (h *SeatHandler) Release(c echo.Context) error {
	p, err := principalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}

	seat, err := h.Engine.Release(c.Request().Context(), seatID, p)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your seat"})
		case errors.Is(err, repository.ErrNotBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not booked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed, try again"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"seat": toSeatResp(seat)})
}
