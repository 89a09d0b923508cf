package tap

import "context"

// CollectionPointer is the result of a collection read: a page of
// member IRIs plus opaque pagination cursors. An empty Items with no
// cursors signals absence (used by FindCollection to mean "not a
// member").
type CollectionPointer struct {
	Items  []string
	Before string
	After  string
	Count  *int
}

// EntityStore is the async CRUD collaborator over stored items,
// collection membership, and quad queries. The concrete persistence
// backend is an external collaborator; this core only depends on this
// interface, and expresses layering (caching, quad-backed, remote
// fetching) by composition through it rather than by inheritance.
type EntityStore interface {
	// Get retrieves a single StoreItem. A missing entity is not an
	// error; it returns (nil, nil). local indicates the caller does
	// not want the store to fetch remote documents to satisfy the read.
	Get(ctx context.Context, iri string, local bool) (*StoreItem, error)

	// Put stores item, whose ID must equal iri. The store applies
	// CanReplace against any existing item at iri and may
	// reject the write.
	Put(ctx context.Context, iri string, item *StoreItem) error

	// Query matches each quad pattern and returns a row of column
	// values per satisfying assignment, columns ordered by placeholder
	// index.
	Query(ctx context.Context, queries []QuadQuery) ([][]string, error)

	// ReadCollection returns a page of iri's members. count and cursor
	// are optional (empty cursor means "from the start").
	ReadCollection(ctx context.Context, iri string, count *int, cursor string) (CollectionPointer, error)

	// FindCollection reports whether item is a member of the collection
	// at iri; emptiness of the returned pointer signals absence.
	FindCollection(ctx context.Context, iri string, item string) (CollectionPointer, error)

	// InsertCollection adds item to the collection at iri. Idempotent.
	InsertCollection(ctx context.Context, iri string, item string) error

	// RemoveCollection removes item from the collection at iri. Idempotent.
	RemoveCollection(ctx context.Context, iri string, item string) error

	// ReadCollectionInverse returns every collection containing item.
	ReadCollectionInverse(ctx context.Context, item string) (CollectionPointer, error)
}
