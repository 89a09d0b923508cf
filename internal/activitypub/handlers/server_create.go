package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// serverCreate appends a federated Create's object into the replies
// collection of whatever owned local entity it is in reply to.
func serverCreate(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("server_create: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}
	if !root.Main().HasType(tap.TypeCreate) {
		return nil
	}

	inbox, err := tctx.Entities.Get(ctx, *inboxID, true)
	if err != nil {
		return fmt.Errorf("server_create: %w", err)
	}
	if inbox == nil {
		return tap.ErrFailedToRetrieve
	}
	attributedTo := tap.PointerIDs(inbox.Main().Get(tap.PredAttributedTo))

	for _, p := range root.Main().Get(tap.PredObject) {
		id, ok := p.(tap.IDPointer)
		if !ok {
			return tap.ErrMissingObject
		}
		obj, err := tctx.Entities.Get(ctx, id.ID, true)
		if err != nil {
			return fmt.Errorf("server_create: %w", err)
		}
		if obj == nil {
			return tap.ErrMissingObject
		}

		for _, rp := range obj.Main().Get(tap.PredInReplyTo) {
			targetID, ok := rp.(tap.IDPointer)
			if !ok {
				continue
			}
			target, err := tctx.Entities.Get(ctx, targetID.ID, true)
			if err != nil {
				return fmt.Errorf("server_create: %w", err)
			}
			if target == nil || !target.IsOwned(tctx) {
				continue
			}
			if !tap.SameIDMultiset(tap.PointerIDs(target.Main().Get(tap.PredAttributedTo)), attributedTo) {
				continue
			}
			repliesPtrs := target.Main().Get(tap.PredReplies)
			if len(repliesPtrs) != 1 {
				continue
			}
			repliesColl, ok := repliesPtrs[0].(tap.IDPointer)
			if !ok {
				continue
			}
			if err := tctx.Entities.InsertCollection(ctx, repliesColl.ID, obj.ID); err != nil {
				return fmt.Errorf("server_create: %w", err)
			}
		}
	}
	return nil
}
