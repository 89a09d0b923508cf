package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// clientLike inserts a Like's object ids into the authenticated
// subject's as:liked collection.
func clientLike(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("client_like: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}
	if !root.Main().HasType(tap.TypeLike) {
		return nil
	}

	subject, err := tctx.Entities.Get(ctx, tctx.User.Subject, true)
	if err != nil {
		return fmt.Errorf("client_like: %w", err)
	}
	if subject == nil {
		return tap.ErrMissingActor
	}

	likedPtrs := subject.Main().Get(tap.PredLiked)
	if len(likedPtrs) != 1 {
		return nil
	}
	likedColl, ok := likedPtrs[0].(tap.IDPointer)
	if !ok {
		return nil
	}

	for _, p := range root.Main().Get(tap.PredObject) {
		id, ok := p.(tap.IDPointer)
		if !ok {
			continue
		}
		if err := tctx.Entities.InsertCollection(ctx, likedColl.ID, id.ID); err != nil {
			return fmt.Errorf("client_like: %w", err)
		}
	}
	return nil
}
