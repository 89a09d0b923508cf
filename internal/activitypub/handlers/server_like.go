package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// serverLike inserts a federated Like/Announce into the owned target's
// likes/shares collection, when the target is attributed to the same
// actor as the receiving inbox.
func serverLike(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("server_like: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}
	isLike := root.Main().HasType(tap.TypeLike)
	isAnnounce := root.Main().HasType(tap.TypeAnnounce)
	if !isLike && !isAnnounce {
		return nil
	}

	inbox, err := tctx.Entities.Get(ctx, *inboxID, true)
	if err != nil {
		return fmt.Errorf("server_like: %w", err)
	}
	if inbox == nil {
		return tap.ErrFailedToRetrieve
	}
	attributedTo := tap.PointerIDs(inbox.Main().Get(tap.PredAttributedTo))

	for _, p := range root.Main().Get(tap.PredObject) {
		id, ok := p.(tap.IDPointer)
		if !ok {
			continue
		}
		target, err := tctx.Entities.Get(ctx, id.ID, true)
		if err != nil {
			return fmt.Errorf("server_like: %w", err)
		}
		if target == nil || !target.IsOwned(tctx) {
			continue
		}
		if !tap.SameIDMultiset(tap.PointerIDs(target.Main().Get(tap.PredAttributedTo)), attributedTo) {
			continue
		}

		if isLike {
			if likes := target.Main().Get(tap.PredLikes); len(likes) == 1 {
				if coll, ok := likes[0].(tap.IDPointer); ok {
					if err := tctx.Entities.InsertCollection(ctx, coll.ID, root.ID); err != nil {
						return fmt.Errorf("server_like: %w", err)
					}
				}
			}
		}
		if isAnnounce {
			if shares := target.Main().Get(tap.PredShares); len(shares) == 1 {
				if coll, ok := shares[0].(tap.IDPointer); ok {
					if err := tctx.Entities.InsertCollection(ctx, coll.ID, root.ID); err != nil {
						return fmt.Errorf("server_like: %w", err)
					}
				}
			}
		}
	}
	return nil
}
