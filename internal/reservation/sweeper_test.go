package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

func TestSweepOnceFreesOnlyExpiredSeats(t *testing.T) {
	eng, store, clock, _ := newTestEngine(1, 2, 3)
	ctx := context.Background()

	_, err := eng.Book(ctx, 1, Principal{ID: 7, Role: model.RoleMember})
	require.NoError(t, err)

	// Seat 2 is booked an hour later, so it survives the first sweep.
	clock.Advance(time.Hour)
	_, err = eng.Book(ctx, 2, Principal{ID: 8, Role: model.RoleMember})
	require.NoError(t, err)

	sw := NewSweeper(eng, store, clock, time.Second)

	clock.Advance(ReservationTTL - time.Hour)
	freed, err := sw.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, freed)

	one, err := store.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SeatFree, one.Status)

	two, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.SeatBooked, two.Status)
}

func TestSweepOnceIsIdempotent(t *testing.T) {
	eng, store, clock, _ := newTestEngine(1)
	ctx := context.Background()

	_, err := eng.Book(ctx, 1, Principal{ID: 7, Role: model.RoleMember})
	require.NoError(t, err)
	clock.Advance(ReservationTTL + time.Minute)

	sw := NewSweeper(eng, store, clock, time.Second)

	freed, err := sw.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, freed)

	freed, err = sw.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, freed)
}

func TestSweepOnceToleratesPerSeatFailure(t *testing.T) {
	eng, store, clock, _ := newTestEngine(1, 2)
	ctx := context.Background()

	_, err := eng.Book(ctx, 1, Principal{ID: 7, Role: model.RoleMember})
	require.NoError(t, err)
	_, err = eng.Book(ctx, 2, Principal{ID: 8, Role: model.RoleMember})
	require.NoError(t, err)
	clock.Advance(ReservationTTL + time.Minute)

	store.failExpire[1] = errors.New("deadlock")

	sw := NewSweeper(eng, store, clock, time.Second)
	freed, err := sw.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, freed)

	two, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.SeatFree, two.Status)

	// The failing seat is retried on the next pass.
	delete(store.failExpire, 1)
	freed, err = sw.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, freed)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	eng, store, clock, _ := newTestEngine(1)
	sw := NewSweeper(eng, store, clock, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
