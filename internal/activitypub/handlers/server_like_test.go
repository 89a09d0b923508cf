package handlers_test

import (
	"context"
	"testing"

	"github.com/kroeg/tap/internal/activitypub/handlers"
	"github.com/kroeg/tap/internal/store/memory"
	"github.com/kroeg/tap/internal/tap"
)

func TestServerLikeInsertsIntoLikes(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	tctx := newCtx(store, "https://example.com/subject")

	owned := tap.NewStoreItem("https://example.com/post", nil)
	owned.Main().Types = []string{tap.TypeNote}
	owned.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/subject"})
	owned.Main().Append(tap.PredLikes, tap.IDPointer{ID: "https://example.com/post/likes"})
	owned.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(1)}})
	store.Seed(owned)

	inbox := tap.NewStoreItem("https://example.com/inbox", nil)
	inbox.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/subject"})
	store.Seed(inbox)

	like := tap.NewStoreItem("https://remote.example/like", nil)
	like.Main().Types = []string{tap.TypeLike}
	like.Main().Append(tap.PredObject, tap.IDPointer{ID: "https://example.com/post"})
	store.Seed(like)

	rootID := "https://remote.example/like"
	inboxID := "https://example.com/inbox"

	if err := handlers.Run(ctx, tctx, []handlers.Handler{handlers.InboxChain[2]}, &inboxID, &rootID); err != nil {
		t.Fatalf("server_like: %v", err)
	}

	found, err := store.FindCollection(ctx, "https://example.com/post/likes", "https://remote.example/like")
	if err != nil {
		t.Fatalf("FindCollection: %v", err)
	}
	if len(found.Items) == 0 {
		t.Fatal("expected the Like activity to be a member of the target's as:likes")
	}
}

func TestServerLikeAnnounceInsertsIntoShares(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	tctx := newCtx(store, "https://example.com/subject")

	owned := tap.NewStoreItem("https://example.com/post", nil)
	owned.Main().Types = []string{tap.TypeNote}
	owned.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/subject"})
	owned.Main().Append(tap.PredShares, tap.IDPointer{ID: "https://example.com/post/shares"})
	owned.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(1)}})
	store.Seed(owned)

	inbox := tap.NewStoreItem("https://example.com/inbox", nil)
	inbox.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/subject"})
	store.Seed(inbox)

	announce := tap.NewStoreItem("https://remote.example/announce", nil)
	announce.Main().Types = []string{tap.TypeAnnounce}
	announce.Main().Append(tap.PredObject, tap.IDPointer{ID: "https://example.com/post"})
	store.Seed(announce)

	rootID := "https://remote.example/announce"
	inboxID := "https://example.com/inbox"

	if err := handlers.Run(ctx, tctx, []handlers.Handler{handlers.InboxChain[2]}, &inboxID, &rootID); err != nil {
		t.Fatalf("server_like: %v", err)
	}

	found, err := store.FindCollection(ctx, "https://example.com/post/shares", "https://remote.example/announce")
	if err != nil {
		t.Fatalf("FindCollection: %v", err)
	}
	if len(found.Items) == 0 {
		t.Fatal("expected the Announce activity to be a member of the target's as:shares")
	}
}

func TestServerLikeSkipsNonOwnedTarget(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	tctx := newCtx(store, "https://example.com/subject")

	foreign := tap.NewStoreItem("https://remote.example/post", nil)
	foreign.Main().Types = []string{tap.TypeNote}
	foreign.Main().Append(tap.PredLikes, tap.IDPointer{ID: "https://remote.example/post/likes"})
	store.Seed(foreign)

	inbox := tap.NewStoreItem("https://example.com/inbox", nil)
	inbox.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/subject"})
	store.Seed(inbox)

	like := tap.NewStoreItem("https://remote.example/like", nil)
	like.Main().Types = []string{tap.TypeLike}
	like.Main().Append(tap.PredObject, tap.IDPointer{ID: "https://remote.example/post"})
	store.Seed(like)

	rootID := "https://remote.example/like"
	inboxID := "https://example.com/inbox"

	if err := handlers.Run(ctx, tctx, []handlers.Handler{handlers.InboxChain[2]}, &inboxID, &rootID); err != nil {
		t.Fatalf("server_like: %v", err)
	}

	found, err := store.FindCollection(ctx, "https://remote.example/post/likes", "https://remote.example/like")
	if err != nil {
		t.Fatalf("FindCollection: %v", err)
	}
	if len(found.Items) != 0 {
		t.Fatal("expected server_like to skip a target not owned by this instance")
	}
}

func TestServerLikeSkipsAttributionMismatch(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	tctx := newCtx(store, "https://example.com/subject")

	owned := tap.NewStoreItem("https://example.com/post", nil)
	owned.Main().Types = []string{tap.TypeNote}
	owned.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/other-user"})
	owned.Main().Append(tap.PredLikes, tap.IDPointer{ID: "https://example.com/post/likes"})
	owned.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(1)}})
	store.Seed(owned)

	inbox := tap.NewStoreItem("https://example.com/inbox", nil)
	inbox.Main().Append(tap.PredAttributedTo, tap.IDPointer{ID: "https://example.com/subject"})
	store.Seed(inbox)

	like := tap.NewStoreItem("https://remote.example/like", nil)
	like.Main().Types = []string{tap.TypeLike}
	like.Main().Append(tap.PredObject, tap.IDPointer{ID: "https://example.com/post"})
	store.Seed(like)

	rootID := "https://remote.example/like"
	inboxID := "https://example.com/inbox"

	if err := handlers.Run(ctx, tctx, []handlers.Handler{handlers.InboxChain[2]}, &inboxID, &rootID); err != nil {
		t.Fatalf("server_like: %v", err)
	}

	found, err := store.FindCollection(ctx, "https://example.com/post/likes", "https://remote.example/like")
	if err != nil {
		t.Fatalf("FindCollection: %v", err)
	}
	if len(found.Items) != 0 {
		t.Fatal("expected server_like to skip when attribution does not match")
	}
}

func TestServerLikeNoopOnOtherTypes(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	tctx := newCtx(store, "https://example.com/subject")

	inbox := tap.NewStoreItem("https://example.com/inbox", nil)
	store.Seed(inbox)

	follow := tap.NewStoreItem("https://remote.example/follow", nil)
	follow.Main().Types = []string{tap.TypeFollow}
	store.Seed(follow)

	rootID := "https://remote.example/follow"
	inboxID := "https://example.com/inbox"

	if err := handlers.Run(ctx, tctx, []handlers.Handler{handlers.InboxChain[2]}, &inboxID, &rootID); err != nil {
		t.Fatalf("expected noop on a non-Like/Announce root: %v", err)
	}
}
