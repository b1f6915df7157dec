package live

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yallagames/internal/app/room"
	"yallagames/internal/app/store"
	"yallagames/internal/pkg/errs"
)

// A replaced connection is closed by the hub while its subscription pumps may
// still be mid-flight. Queueing into a closed session must drop the message,
// never panic.
func TestSessionQueueAfterClose(t *testing.T) {
	t.Parallel()

	s := NewSession(nil, nil, room.Participant{ID: "user-1", Name: "A"})

	s.Close()

	require.NotPanics(t, func() {
		s.sendSeatState("")
	})
	require.NotPanics(t, func() {
		s.SendError(errs.NewError(errs.ErrDocumentStoreFailed))
	})

	// Relays from a room channel take the same guarded path.
	assert.False(t, s.queueRaw([]byte(`{}`)))
}

func TestSessionCloseIdempotent(t *testing.T) {
	t.Parallel()

	s := NewSession(nil, nil, room.Participant{ID: "user-1"})

	require.NotPanics(t, func() {
		s.Close()
		s.Close()
	})
}

func TestSessionQueueConcurrentWithClose(t *testing.T) {
	t.Parallel()

	s := NewSession(nil, nil, room.Participant{ID: "user-1"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.sendSeatState("")
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Close()
	}()

	require.NotPanics(t, wg.Wait)
}

// Releasing a subscription must be synchronous: once the cancel returns, the
// pump goroutine has exited and no further snapshot can arrive.
func TestSessionUnsubscribeJoinsPump(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bus := store.NewChangeBus()
	documents := store.NewDocumentStore(mock, bus)

	hub := NewHub(nil, nil, documents, bus)
	defer hub.Shutdown()

	s := NewSession(hub, nil, room.Participant{ID: "user-1"})

	mock.ExpectQuery(`SELECT id, collection, data, created_at, updated_at`).
		WithArgs(store.CollectionBanners, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "collection", "data", "created_at", "updated_at"}))

	s.handleSubscribe(json.RawMessage(`{"collection":"banners"}`))
	require.Contains(t, s.subscriptions, store.CollectionBanners)

	// Drain the immediate snapshot.
	require.Len(t, s.send, 1)
	<-s.send

	s.handleUnsubscribe(json.RawMessage(`{"collection":"banners"}`))
	assert.NotContains(t, s.subscriptions, store.CollectionBanners)

	// The pump is gone, so a publish after release reaches nobody.
	bus.Publish(store.CollectionBanners)
	assert.Empty(t, s.send)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionQueueBeforeCloseDelivers(t *testing.T) {
	t.Parallel()

	s := NewSession(nil, nil, room.Participant{ID: "user-1"})

	s.sendSeatState("")
	assert.Len(t, s.send, 1)

	s.Close()

	// The queued message stays readable for the writer; the close only stops
	// new messages from entering.
	_, ok := <-s.send
	assert.True(t, ok)
	_, ok = <-s.send
	assert.False(t, ok)
}
