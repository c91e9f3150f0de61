package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/analytics"
	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// SampleSource is the sample-history surface the analytics endpoints
// read from.  Implemented by repository.OccupancyRepo.
type SampleSource interface {
	QueryAll(ctx context.Context) ([]model.OccupancySample, error)
	QueryRange(ctx context.Context, from, to time.Time) ([]model.OccupancySample, error)
}

// AnalyticsHandler serves occupancy rollups computed from the sample
// history.  All three endpoints are read-only and cacheable.
type AnalyticsHandler struct {
	Samples SampleSource
}

func NewAnalyticsHandler(samples SampleSource) *AnalyticsHandler {
	return &AnalyticsHandler{Samples: samples}
}

// BestTimes handles GET /v1/analytics/best-times.  It averages every
// recorded sample and reports the hours of day whose average occupancy
// sits below the quiet threshold, merged into contiguous ranges like
// "9 AM-11 AM".
func (h *AnalyticsHandler) BestTimes(c echo.Context) error {
	ctx := c.Request().Context()

	samples, err := h.Samples.QueryAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(samples) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"quiet_hours": []string{},
			"message":     "not enough data yet",
		})
	}

	hourly, err := analytics.HourlyAverages(ctx, samples)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"quiet_hours": analytics.QuietHours(hourly)})
}

// Today handles GET /v1/analytics/today.  The trend runs from local
// midnight to now, one point per hour that has samples.
func (h *AnalyticsHandler) Today(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	samples, err := h.Samples.QueryRange(ctx, midnight, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	trend, err := analytics.HourlyTrend(ctx, samples)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"trend": trend})
}

// Weekly handles GET /v1/analytics/weekly.  Day buckets cover the last
// seven days and keep chronological order.
func (h *AnalyticsHandler) Weekly(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now()

	samples, err := h.Samples.QueryRange(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	daily, err := analytics.DailyAverages(ctx, samples)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analytics failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"days": daily})
}
