package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/config"
	"github.com/iliyamo/library-seat-reservation/internal/facility"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
)

// Crowd level bands over the current occupancy percentage.
const (
	crowdLow    = "Low"
	crowdMedium = "Medium"
	crowdHigh   = "High"
)

// StatsHandler serves live occupancy numbers and the facility clock.
type StatsHandler struct {
	Seats    *repository.SeatRepo
	Facility config.FacilityConfig
}

func NewStatsHandler(seats *repository.SeatRepo, fc config.FacilityConfig) *StatsHandler {
	return &StatsHandler{Seats: seats, Facility: fc}
}

// Stats handles GET /v1/stats.  Counts come straight from the seats
// table so the numbers reflect the state at the instant of the query.
func (h *StatsHandler) Stats(c echo.Context) error {
	total, booked, err := h.Seats.CountByStatus(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(booked) / float64(total)))
	}
	level := crowdHigh
	switch {
	case pct < 40:
		level = crowdLow
	case pct < 75:
		level = crowdMedium
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_seats":          total,
		"booked_seats":         booked,
		"free_seats":           total - booked,
		"occupancy_percentage": pct,
		"crowd_level":          level,
	})
}

// FacilityStatus handles GET /v1/facility/status.
func (h *StatsHandler) FacilityStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, facility.StatusAt(h.Facility, time.Now()))
}
