package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherSyncMode(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithLogger(discardLogger()))
	defer pub.Close()

	contactID := uuid.New()
	require.NoError(t, pub.Emit(context.Background(), Event{Type: EventContactCreated, ContactID: contactID}))

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventContactCreated, events[0].Type)
	assert.Equal(t, contactID, events[0].ContactID)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherAsyncModeDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10), WithLogger(discardLogger()))

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Emit(context.Background(), Event{Type: EventInvitationCreated}))
	}
	pub.Close()

	events, err := store.ListByType(context.Background(), EventInvitationCreated)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestPublisherEmitAfterClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(4), WithLogger(discardLogger()))
	pub.Close()
	pub.Close()

	require.NotPanics(t, func() {
		require.NoError(t, pub.Emit(context.Background(), Event{Type: EventInvitationCreated}))
	})
	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1, "late events are appended directly")
}

func TestPublisherConcurrentEmitAndClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(64), WithLogger(discardLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = pub.Emit(context.Background(), Event{Type: EventContactCreated})
			}
		}()
	}
	pub.Close()
	wg.Wait()
}

type failingStore struct {
	calls atomic.Int32
}

func (f *failingStore) Append(context.Context, Event) error {
	f.calls.Add(1)
	return errors.New("broker unavailable")
}

func TestPublisherSyncModeReturnsStoreError(t *testing.T) {
	pub := NewPublisher(&failingStore{}, WithLogger(discardLogger()))
	err := pub.Emit(context.Background(), Event{Type: EventContactOrphaned})
	require.Error(t, err)
}

func TestWorkerKeepsDrainingAfterStoreError(t *testing.T) {
	store := &failingStore{}
	inbox := make(chan Event, 3)
	inbox <- Event{Type: EventContactCreated}
	inbox <- Event{Type: EventContactCreated}
	inbox <- Event{Type: EventContactCreated}
	close(inbox)

	NewWorker(store, inbox, discardLogger()).Run(context.Background())
	assert.Equal(t, int32(3), store.calls.Load())
}
