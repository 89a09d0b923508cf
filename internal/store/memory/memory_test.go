package memory_test

import (
	"context"
	"testing"

	"github.com/kroeg/tap/internal/store/memory"
	"github.com/kroeg/tap/internal/tap"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	item := tap.NewStoreItem("https://example.com/note", nil)
	item.Main().Types = []string{tap.TypeNote}

	if err := store.Put(ctx, "https://example.com/note", item); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "https://example.com/note", true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || !got.Main().HasType(tap.TypeNote) {
		t.Fatalf("expected round-tripped Note, got %+v", got)
	}
}

func TestGetMissingIsNotAnError(t *testing.T) {
	store := memory.New()
	got, err := store.Get(context.Background(), "https://example.com/absent", true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing entity, got %+v", got)
	}
}

func TestPutRejectsReplacingTombstone(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	tombstone := tap.NewStoreItem("https://example.com/note", nil)
	tombstone.Main().Types = []string{tap.TypeTombstone}
	store.Seed(tombstone)

	replacement := tap.NewStoreItem("https://example.com/note", nil)
	replacement.Main().Types = []string{tap.TypeNote}

	if err := store.Put(ctx, "https://example.com/note", replacement); err == nil {
		t.Fatal("expected Put to reject replacing a tombstone")
	}
}

func TestPutRejectsMismatchedID(t *testing.T) {
	store := memory.New()
	item := tap.NewStoreItem("https://example.com/a", nil)

	if err := store.Put(context.Background(), "https://example.com/b", item); err == nil {
		t.Fatal("expected Put to reject an id/iri mismatch")
	}
}

func TestQuerySinglePattern(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	note := tap.NewStoreItem("https://example.com/note", nil)
	note.Main().Append(tap.PredActor, tap.IDPointer{ID: "https://example.com/alice"})
	store.Seed(note)

	q, err := tap.ParseQuadQuery("?0 as:actor ?1")
	if err != nil {
		t.Fatalf("ParseQuadQuery: %v", err)
	}

	rows, err := store.Query(ctx, []tap.QuadQuery{q})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "https://example.com/note" || rows[0][1] != "https://example.com/alice" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestQueryJoinsAcrossPatterns(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	note := tap.NewStoreItem("https://example.com/note", nil)
	note.Main().Append(tap.PredActor, tap.IDPointer{ID: "https://example.com/alice"})
	store.Seed(note)

	alice := tap.NewStoreItem("https://example.com/alice", nil)
	alice.Main().Types = []string{tap.TypePerson}
	store.Seed(alice)

	bob := tap.NewStoreItem("https://example.com/bob", nil)
	bob.Main().Types = []string{tap.TypePerson}
	store.Seed(bob)

	q1, err := tap.ParseQuadQuery("?0 as:actor ?1")
	if err != nil {
		t.Fatalf("ParseQuadQuery: %v", err)
	}
	q2, err := tap.ParseQuadQuery("?1 rdf:type as:Person")
	if err != nil {
		t.Fatalf("ParseQuadQuery: %v", err)
	}

	rows, err := store.Query(ctx, []tap.QuadQuery{q1, q2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows: rdf:type is not a stored predicate in this store, got %+v", rows)
	}
}

func TestQueryNoMatchReturnsEmpty(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	q, err := tap.ParseQuadQuery("?0 as:actor ?1")
	if err != nil {
		t.Fatalf("ParseQuadQuery: %v", err)
	}

	rows, err := store.Query(ctx, []tap.QuadQuery{q})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows against an empty store, got %+v", rows)
	}
}

func TestReadCollectionPaginates(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	store.SeedCollection("https://example.com/outbox", "a", "b", "c")

	two := 2
	page, err := store.ReadCollection(ctx, "https://example.com/outbox", &two, "")
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0] != "a" || page.Items[1] != "b" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if page.After == "" {
		t.Fatal("expected a non-empty after cursor for a partial page")
	}

	next, err := store.ReadCollection(ctx, "https://example.com/outbox", &two, page.After)
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0] != "c" {
		t.Fatalf("unexpected second page: %+v", next)
	}
	if next.After != "" {
		t.Fatal("expected no further pages")
	}
}

func TestReadCollectionInvalidCursor(t *testing.T) {
	store := memory.New()
	store.SeedCollection("https://example.com/outbox", "a")

	_, err := store.ReadCollection(context.Background(), "https://example.com/outbox", nil, "not-a-number")
	if err == nil {
		t.Fatal("expected an error for a malformed cursor")
	}
}

func TestInsertCollectionIsIdempotent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	if err := store.InsertCollection(ctx, "https://example.com/outbox", "a"); err != nil {
		t.Fatalf("InsertCollection: %v", err)
	}
	if err := store.InsertCollection(ctx, "https://example.com/outbox", "a"); err != nil {
		t.Fatalf("InsertCollection: %v", err)
	}

	page, err := store.ReadCollection(ctx, "https://example.com/outbox", nil, "")
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected a single member after duplicate inserts, got %+v", page.Items)
	}
}

func TestRemoveCollectionIsIdempotent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.SeedCollection("https://example.com/outbox", "a", "b")

	if err := store.RemoveCollection(ctx, "https://example.com/outbox", "a"); err != nil {
		t.Fatalf("RemoveCollection: %v", err)
	}
	if err := store.RemoveCollection(ctx, "https://example.com/outbox", "a"); err != nil {
		t.Fatalf("RemoveCollection (second): %v", err)
	}

	page, err := store.ReadCollection(ctx, "https://example.com/outbox", nil, "")
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0] != "b" {
		t.Fatalf("unexpected membership after removal: %+v", page.Items)
	}
}

func TestFindCollectionReportsMembership(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.SeedCollection("https://example.com/followers", "https://example.com/alice")

	found, err := store.FindCollection(ctx, "https://example.com/followers", "https://example.com/alice")
	if err != nil {
		t.Fatalf("FindCollection: %v", err)
	}
	if len(found.Items) == 0 {
		t.Fatal("expected membership to be found")
	}

	notFound, err := store.FindCollection(ctx, "https://example.com/followers", "https://example.com/bob")
	if err != nil {
		t.Fatalf("FindCollection: %v", err)
	}
	if len(notFound.Items) != 0 {
		t.Fatal("expected no membership for an unrelated subject")
	}
}

func TestReadCollectionInverseFindsAllContainingCollections(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.SeedCollection("https://example.com/followers", "https://example.com/alice")
	store.SeedCollection("https://example.com/outbox", "https://example.com/alice")
	store.SeedCollection("https://example.com/unrelated", "https://example.com/bob")

	inverse, err := store.ReadCollectionInverse(ctx, "https://example.com/alice")
	if err != nil {
		t.Fatalf("ReadCollectionInverse: %v", err)
	}
	if len(inverse.Items) != 2 {
		t.Fatalf("expected 2 containing collections, got %+v", inverse.Items)
	}
}

func TestQueueAddAndGetItem(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	if err := store.Add(ctx, "deliver", `{"to":"https://example.com/inbox"}`); err != nil {
		t.Fatalf("Add: %v", err)
	}

	item, err := store.GetItem(ctx)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item == nil || item.Event != "deliver" || item.ID == "" {
		t.Fatalf("unexpected queue item: %+v", item)
	}

	drained, err := store.GetItem(ctx)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if drained != nil {
		t.Fatal("expected an empty queue after draining the single item")
	}
}

func TestQueueMarkFailureRequeues(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	if err := store.Add(ctx, "deliver", "payload"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	item, err := store.GetItem(ctx)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}

	if err := store.MarkFailure(ctx, *item); err != nil {
		t.Fatalf("MarkFailure: %v", err)
	}

	requeued, err := store.GetItem(ctx)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if requeued == nil || requeued.ID != item.ID {
		t.Fatalf("expected the failed item to be requeued, got %+v", requeued)
	}
}

func TestQueueMarkSuccessDoesNotRequeue(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	if err := store.Add(ctx, "deliver", "payload"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	item, err := store.GetItem(ctx)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}

	if err := store.MarkSuccess(ctx, *item); err != nil {
		t.Fatalf("MarkSuccess: %v", err)
	}

	drained, err := store.GetItem(ctx)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if drained != nil {
		t.Fatal("expected no requeue after success")
	}
}
