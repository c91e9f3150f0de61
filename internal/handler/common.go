package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/reservation"
)

// getUserID extracts the authenticated user id stored in context by the
// JWT middleware.  JWT numeric claims decode as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// principalFromContext builds the acting principal for the reservation
// engine from the JWT claims stored in context.
func principalFromContext(c echo.Context) (reservation.Principal, error) {
	uid, err := getUserID(c)
	if err != nil {
		return reservation.Principal{}, err
	}
	role, _ := c.Get("role").(string)
	return reservation.Principal{ID: uid, Role: role}, nil
}
