// Package notify implements the in-process fan-out side of the change
// notification path.  The broker consumer feeds events into a Bridge;
// anything holding a subscription gets called back.  Callbacks receive
// a signal and are expected to re-query current state rather than
// trust the event payload, since broker delivery is at-least-once and
// unordered across seats.
package notify

import (
	"sync"

	"github.com/iliyamo/library-seat-reservation/internal/queue"
)

// Handle identifies one subscription so it can be cancelled later.
type Handle uint64

// Bridge fans seat change events out to registered callbacks.  The
// zero value is not usable; construct with NewBridge.
type Bridge struct {
	mu   sync.Mutex
	next Handle
	subs map[Handle]func(queue.SeatChangedEvent)
}

// NewBridge returns an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{subs: make(map[Handle]func(queue.SeatChangedEvent))}
}

// Subscribe registers fn to be called on every seat change and returns
// a handle for Unsubscribe.  fn must not block; long work belongs in a
// goroutine on the subscriber's side.
func (b *Bridge) Subscribe(fn func(queue.SeatChangedEvent)) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	h := b.next
	b.subs[h] = fn
	return h
}

// Unsubscribe removes the subscription; unknown handles are ignored.
func (b *Bridge) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, h)
}

// Publish delivers the event to every current subscriber.  The
// subscriber list is copied under the lock so callbacks run without
// holding it and may themselves subscribe or unsubscribe.
func (b *Bridge) Publish(ev queue.SeatChangedEvent) {
	b.mu.Lock()
	fns := make([]func(queue.SeatChangedEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Len reports the number of active subscriptions.
func (b *Bridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
