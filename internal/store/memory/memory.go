// Package memory is the in-memory reference implementation of
// tap.EntityStore and tap.QueueStore: a sync.RWMutex-guarded map store,
// suitable for tests and for embedders that don't need durability.
package memory

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/worldline-go/types"

	"github.com/kroeg/tap/internal/tap"
)

// Store is an in-memory EntityStore and QueueStore.
type Store struct {
	mu sync.RWMutex

	items       map[string]*tap.StoreItem
	collections map[string][]string // collection iri -> ordered, de-duplicated member iris
	queue       []tap.QueueItem
}

// New returns an empty Store.
func New() *Store {
	slog.Info("creating in-memory entity store")
	return &Store{
		items:       map[string]*tap.StoreItem{},
		collections: map[string][]string{},
	}
}

func (s *Store) Get(_ context.Context, iri string, local bool) (*tap.StoreItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[iri]
	if !ok {
		slog.Debug("entity not found", "iri", iri, "local", local)
		return nil, nil
	}
	return item.Clone(), nil
}

func (s *Store) Put(_ context.Context, iri string, item *tap.StoreItem) error {
	if item.ID != iri {
		return errors.New("memory: put: item id does not match iri")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.items[iri]
	if !tap.CanReplace(existing, item) {
		return errors.New("memory: put: replace not authorized")
	}

	if item.Main().HasType(tap.TypeOrderedCollection) {
		if _, ok := s.collections[iri]; !ok {
			s.collections[iri] = nil
		}
	}

	s.items[iri] = item.Clone()
	slog.Debug("stored entity", "iri", iri)
	return nil
}

func (s *Store) Query(_ context.Context, queries []tap.QuadQuery) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows [][]string
	s.joinQueries(queries, 0, map[int]string{}, &rows)
	return rows, nil
}

// joinQueries performs a naive backtracking join across patterns: each
// pattern is matched against every stored subject, and bindings carried
// from earlier patterns constrain later ones via shared placeholder
// indices. This is a reference-store join, not a general RDF query
// engine (out of scope); it is adequate for the small, bounded queries
// handlers issue.
func (s *Store) joinQueries(queries []tap.QuadQuery, idx int, bindings map[int]string, rows *[][]string) {
	if idx == len(queries) {
		*rows = append(*rows, placeholdersToRow(bindings))
		return
	}

	q := queries[idx]
	for subjID, item := range s.items {
		subjBindings := cloneBindings(bindings)
		if !matchQueryID(q.Subject, subjID, subjBindings) {
			continue
		}

		for pred, values := range item.Main().Properties {
			predBindings := cloneBindings(subjBindings)
			if !matchQueryID(q.Predicate, pred, predBindings) {
				continue
			}

			for _, v := range values {
				objBindings := cloneBindings(predBindings)
				if matchQueryObject(q.Object, v, objBindings) {
					s.joinQueries(queries, idx+1, objBindings, rows)
				}
			}
		}
	}
}

func cloneBindings(b map[int]string) map[int]string {
	out := make(map[int]string, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func matchQueryID(q tap.QueryID, value string, placeholders map[int]string) bool {
	switch q.Kind {
	case tap.QueryIDIgnore:
		return true
	case tap.QueryIDValue:
		return q.Value == value
	case tap.QueryIDPlaceholder:
		if bound, ok := placeholders[q.Placeholder]; ok {
			return bound == value
		}
		placeholders[q.Placeholder] = value
		return true
	case tap.QueryIDAny:
		for _, v := range q.Any {
			if v == value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchQueryObject(q tap.QueryObject, v tap.Pointer, placeholders map[int]string) bool {
	switch q.Kind {
	case tap.QueryObjectID:
		id, ok := v.(tap.IDPointer)
		if !ok {
			return false
		}
		return matchQueryID(q.ID, id.ID, placeholders)
	case tap.QueryObjectLiteral, tap.QueryObjectLanguageString:
		vp, ok := v.(tap.ValuePointer)
		return ok && vp.Value.Raw == q.Value
	default:
		return false
	}
}

func placeholdersToRow(placeholders map[int]string) []string {
	indices := make([]int, 0, len(placeholders))
	for i := range placeholders {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	row := make([]string, len(indices))
	for i, idx := range indices {
		row[i] = placeholders[idx]
	}
	return row
}

func (s *Store) ReadCollection(_ context.Context, iri string, count *int, cursor string) (tap.CollectionPointer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := s.collections[iri]

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return tap.CollectionPointer{}, errors.New("memory: invalid cursor")
		}
		start = n
	}
	if start > len(members) {
		start = len(members)
	}

	end := len(members)
	if count != nil && start+*count < end {
		end = start + *count
	}

	page := append([]string(nil), members[start:end]...)

	var after string
	if end < len(members) {
		after = strconv.Itoa(end)
	}
	var before string
	if start > 0 {
		before = strconv.Itoa(start)
	}

	total := len(members)
	return tap.CollectionPointer{Items: page, Before: before, After: after, Count: &total}, nil
}

func (s *Store) FindCollection(_ context.Context, iri string, item string) (tap.CollectionPointer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.collections[iri] {
		if m == item {
			return tap.CollectionPointer{Items: []string{item}}, nil
		}
	}
	return tap.CollectionPointer{}, nil
}

func (s *Store) InsertCollection(_ context.Context, iri string, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.collections[iri] {
		if m == item {
			return nil
		}
	}
	s.collections[iri] = append(s.collections[iri], item)
	return nil
}

func (s *Store) RemoveCollection(_ context.Context, iri string, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.collections[iri]
	for i, m := range members {
		if m == item {
			s.collections[iri] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) ReadCollectionInverse(_ context.Context, item string) (tap.CollectionPointer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for iri, members := range s.collections {
		for _, m := range members {
			if m == item {
				out = append(out, iri)
				break
			}
		}
	}
	sort.Strings(out)
	return tap.CollectionPointer{Items: out}, nil
}

// GetItem dequeues the oldest queued item, if any.
func (s *Store) GetItem(_ context.Context) (*tap.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return nil, nil
	}
	item := s.queue[0]
	s.queue = s.queue[1:]
	return &item, nil
}

func (s *Store) MarkSuccess(_ context.Context, item tap.QueueItem) error {
	slog.Debug("queue item processed", "id", item.ID, "event", item.Event)
	return nil
}

func (s *Store) MarkFailure(_ context.Context, item tap.QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Warn("queue item failed, redelivering", "id", item.ID, "event", item.Event)
	s.queue = append(s.queue, item)
	return nil
}

func (s *Store) Add(_ context.Context, event string, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, tap.QueueItem{
		ID:        ulid.Make().String(),
		Event:     event,
		Data:      data,
		CreatedAt: types.NewTime(time.Now().UTC()),
	})
	return nil
}

// HasReadAll reports whether every iri in ids has a stored entity. The
// store does not record which entities were read, so this does not show
// that a handler actually fetched them.
func (s *Store) HasReadAll(ids ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			return false
		}
	}
	return true
}

// Seed directly installs an item into the store, bypassing Put's
// can_replace check. Test helper.
func (s *Store) Seed(item *tap.StoreItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	if item.Main().HasType(tap.TypeOrderedCollection) {
		if _, ok := s.collections[item.ID]; !ok {
			s.collections[item.ID] = nil
		}
	}
}

// SeedCollection directly sets a collection's membership. Test helper.
func (s *Store) SeedCollection(iri string, members ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[iri] = append([]string(nil), members...)
}
