package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/notify"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
)

// keepaliveInterval is how often an SSE comment is written so idle
// proxies do not drop the stream.
const keepaliveInterval = 30 * time.Second

// EventsHandler streams seat change events to clients over
// server-sent events.  Events are a signal only; clients re-fetch the
// seat list on receipt instead of applying the payload, since broker
// delivery is at-least-once and unordered across seats.
type EventsHandler struct {
	Bridge *notify.Bridge
}

func NewEventsHandler(bridge *notify.Bridge) *EventsHandler {
	return &EventsHandler{Bridge: bridge}
}

// Stream handles GET /v1/seats/events.  It subscribes the connection
// to the bridge and forwards events until the client goes away.  A
// slow client loses events rather than blocking the bridge; the next
// event it does receive still triggers a full re-fetch.
func (h *EventsHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	events := make(chan queue.SeatChangedEvent, 16)
	handle := h.Bridge.Subscribe(func(ev queue.SeatChangedEvent) {
		select {
		case events <- ev:
		default: // drop when the client's buffer is full
		}
	})
	defer h.Bridge.Unsubscribe(handle)

	ctx := c.Request().Context()
	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := writeEvent(w, ev); err != nil {
				return nil
			}
			w.Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// writeEvent renders one SSE frame: an event name line, a data line
// with the JSON payload, and a blank separator.
func writeEvent(w *echo.Response, ev queue.SeatChangedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: seat.changed\ndata: %s\n\n", data)
	return err
}
