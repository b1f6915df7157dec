package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStoreMergeUpsertsByName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bus := NewChangeBus()
	wakeups, cancel := bus.Subscribe(CollectionSettings)
	defer cancel()

	s := NewDocumentStore(mock, bus)

	mock.ExpectExec(`WHERE documents\.collection = EXCLUDED\.collection`).
		WithArgs("appearance", CollectionSettings, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Merge(context.Background(), CollectionSettings, "appearance", map[string]any{"logo": "x"})
	require.NoError(t, err)

	select {
	case <-wakeups:
	default:
		t.Fatal("expected a change notification after a successful merge")
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A merge aimed at an id held by a different collection must refuse instead
// of silently mutating the foreign document.
func TestDocumentStoreMergeGuardsCollection(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bus := NewChangeBus()
	wakeups, cancel := bus.Subscribe(CollectionSettings)
	defer cancel()

	s := NewDocumentStore(mock, bus)

	mock.ExpectExec(`WHERE documents\.collection = EXCLUDED\.collection`).
		WithArgs("design", CollectionSettings, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = s.Merge(context.Background(), CollectionSettings, "design", map[string]any{"micOpenIcon": "x"})
	require.ErrorIs(t, err, ErrWrongCollection)

	select {
	case <-wakeups:
		t.Fatal("a refused merge must not publish a change")
	default:
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStoreListClampsLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		collection string
		limit      int
		wantLimit  int
	}{
		{name: "zero limit uses the cap", collection: CollectionBanners, limit: 0, wantLimit: 5},
		{name: "oversized limit is clamped", collection: CollectionRooms, limit: 300, wantLimit: 20},
		{name: "small limit passes through", collection: CollectionNews, limit: 3, wantLimit: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			s := NewDocumentStore(mock, NewChangeBus())

			now := time.Now()
			rows := pgxmock.NewRows([]string{"id", "collection", "data", "created_at", "updated_at"}).
				AddRow("d1", tc.collection, []byte(`{"title":"a"}`), now, now)

			mock.ExpectQuery(`SELECT id, collection, data, created_at, updated_at`).
				WithArgs(tc.collection, tc.wantLimit).
				WillReturnRows(rows)

			docs, err := s.List(context.Background(), tc.collection, tc.limit)
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, "a", docs[0].Data["title"])

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
