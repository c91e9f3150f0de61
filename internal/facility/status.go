// Package facility derives the room's open/break/closed state from the
// static operating schedule.  This feeds the status card on the
// dashboard; the reservation engine itself does not consult it.
package facility

import (
	"fmt"
	"time"

	"github.com/iliyamo/library-seat-reservation/internal/config"
)

// States reported by StatusAt.
const (
	StateOpen   = "open"
	StateBreak  = "break"
	StateClosed = "closed"
)

// Status is the display-facing schedule state at a point in time.
type Status struct {
	State     string `json:"state"`
	Label     string `json:"label"`
	NextEvent string `json:"next_event"`
}

// StatusAt evaluates the schedule at the given wall-clock time.
func StatusAt(cfg config.FacilityConfig, now time.Time) Status {
	totalMin := now.Hour()*60 + now.Minute()

	openMin := cfg.OpenHour * 60
	closeMin := cfg.CloseHour*60 + cfg.CloseMinute
	lunchStart := cfg.LunchHour * 60
	lunchEnd := lunchStart + cfg.LunchDurationMin

	switch {
	case totalMin < openMin:
		return Status{State: StateClosed, Label: "Closed", NextEvent: "Opens at " + fmtClock(openMin)}
	case totalMin >= closeMin:
		return Status{State: StateClosed, Label: "Closed", NextEvent: "Opens tomorrow at " + fmtClock(openMin)}
	case totalMin >= lunchStart && totalMin < lunchEnd:
		return Status{State: StateBreak, Label: "Lunch Break", NextEvent: "Resumes at " + fmtClock(lunchEnd)}
	case totalMin < lunchStart:
		return Status{State: StateOpen, Label: "Open", NextEvent: "Lunch break at " + fmtClock(lunchStart)}
	default:
		return Status{State: StateOpen, Label: "Open", NextEvent: "Closes at " + fmtClock(closeMin)}
	}
}

// fmtClock renders minutes-of-day as a 12-hour time like "7:30 PM".
func fmtClock(totalMin int) string {
	h := (totalMin / 60) % 24
	m := totalMin % 60
	suffix := "AM"
	display := h
	switch {
	case h == 0:
		display = 12
	case h == 12:
		suffix = "PM"
	case h > 12:
		display = h - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, m, suffix)
}
