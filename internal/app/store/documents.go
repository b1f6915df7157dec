package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Collection names served by the document store.
const (
	CollectionRooms           = "rooms"
	CollectionBanners         = "banners"
	CollectionNews            = "news"
	CollectionRoomBackgrounds = "roomBackgrounds"
	CollectionSettings        = "settings"
)

// DefaultListSize is the listing cap for collections without a specific one.
const DefaultListSize = 100

// listCaps stores the per-collection listing caps. Listings never return more
// rows than the cap regardless of the requested limit.
var listCaps = map[string]int{
	CollectionBanners: 5,
	CollectionRooms:   20,
}

// ListCap returns the listing cap for the given collection.
func ListCap(collection string) int {
	if n, ok := listCaps[collection]; ok {
		return n
	}
	return DefaultListSize
}

// KnownCollection reports whether the named collection is served by the store.
func KnownCollection(name string) bool {
	switch name {
	case CollectionRooms, CollectionBanners, CollectionNews,
		CollectionRoomBackgrounds, CollectionSettings:
		return true
	}
	return false
}

// Document is a schemaless row in a named collection.
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"-"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Querier is the subset of pgxpool.Pool the document store issues queries
// through.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore provides access to the generic JSONB collections. Every
// successful write publishes the collection name on the change bus so live
// subscribers can re-read the collection.
type DocumentStore struct {
	pool Querier
	bus  *ChangeBus
}

// NewDocumentStore creates a DocumentStore backed by the given pool and bus.
func NewDocumentStore(pool Querier, bus *ChangeBus) *DocumentStore {
	return &DocumentStore{pool: pool, bus: bus}
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	var raw []byte
	err := row.Scan(&d.ID, &d.Collection, &raw, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &d.Data); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", d.Collection, d.ID, err)
	}
	return &d, nil
}

// Put inserts a new document with a generated identifier and returns it.
func (s *DocumentStore) Put(ctx context.Context, collection string, data map[string]any) (*Document, error) {
	if data == nil {
		data = map[string]any{}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	d := &Document{
		ID:         uuid.New().String(),
		Collection: collection,
		Data:       data,
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO documents (id, collection, data)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		d.ID, collection, raw,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	s.bus.Publish(collection)
	return d, nil
}

// Get fetches a single document from a collection.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, collection, data, created_at, updated_at
		FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	return scanDocument(row)
}

// List returns the documents of a collection ordered by creation time, newest
// first. The limit is clamped to the collection's cap.
func (s *DocumentStore) List(ctx context.Context, collection string, limit int) ([]Document, error) {
	clamp := ListCap(collection)
	if limit <= 0 || limit > clamp {
		limit = clamp
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, collection, data, created_at, updated_at
		FROM documents WHERE collection = $1
		ORDER BY created_at DESC LIMIT $2`,
		collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}

	return docs, rows.Err()
}

// Replace overwrites the data of an existing document.
func (s *DocumentStore) Replace(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE documents SET data = $3, updated_at = now()
		WHERE collection = $1 AND id = $2`,
		collection, id, raw)
	if err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.bus.Publish(collection)
	return nil
}

// Merge shallow-merges a patch into a document, creating the document under
// the given identifier if it does not exist. Used for fixed-name settings
// documents that accumulate fields over time.
func (s *DocumentStore) Merge(ctx context.Context, collection, id string, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode document patch: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, collection, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = now()
		WHERE documents.collection = EXCLUDED.collection`,
		id, collection, raw)
	if err != nil {
		return fmt.Errorf("failed to merge document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// The id conflicted with a document in a different collection; the
		// guarded update touched nothing.
		return ErrWrongCollection
	}

	s.bus.Publish(collection)
	return nil
}

// Delete removes a document from a collection.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.bus.Publish(collection)
	return nil
}
