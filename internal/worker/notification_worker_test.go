package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pic-backend/internal/events"
)

func TestNotificationWorkerDeliversAndDrains(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 8, nil)

	var mu sync.Mutex
	var got []int64
	w.Subscribe(events.EventFormAnswered, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.UserID)
		return nil
	})
	StartNotificationWorker(w, nil)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventFormAnswered, UserID: i}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, got)

	assert.ErrorIs(t, w.Publish(context.Background(), events.Event{Type: events.EventFormAnswered}), ErrStopped)
}

func TestNotificationWorkerQueueFull(t *testing.T) {
	// Not started, so nothing drains the single slot.
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 1, nil)
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventUserLoggedIn}))
	assert.ErrorIs(t, w.Publish(context.Background(), events.Event{Type: events.EventUserLoggedIn}), ErrQueueFull)
}

func TestNotificationWorkerSurvivesHandlerError(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 4, nil)
	calls := 0
	w.Subscribe(events.EventUserRegistered, func(context.Context, events.Event) error {
		calls++
		return errors.New("audit sink down")
	})
	StartNotificationWorker(w, nil)

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventUserRegistered}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventUserRegistered}))
	require.NoError(t, w.Stop(context.Background()))
	assert.Equal(t, 2, calls)
}
