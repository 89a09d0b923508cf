package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// serverFollow resolves an Accept or Reject of a previously issued
// Follow: it edits the follower's as:following collection and stamps
// the Follow's meta with the outcome, so a re-accept or re-reject is a
// no-op.
func serverFollow(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("server_follow: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}

	isAccept := root.Main().HasType(tap.TypeAccept)
	isReject := root.Main().HasType(tap.TypeReject)
	if !isAccept && !isReject {
		return nil
	}

	inbox, err := tctx.Entities.Get(ctx, *inboxID, true)
	if err != nil {
		return fmt.Errorf("server_follow: %w", err)
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
		follow, err := tctx.Entities.Get(ctx, id.ID, true)
		if err != nil {
			return fmt.Errorf("server_follow: %w", err)
		}
		if follow == nil || !follow.IsOwned(tctx) || !follow.Main().HasType(tap.TypeFollow) {
			continue
		}
		if !tap.SameIDMultiset(tap.PointerIDs(follow.Main().Get(tap.PredActor)), attributedTo) {
			continue
		}
		if len(follow.Meta().Get(tap.TypeAccept)) > 0 || len(follow.Meta().Get(tap.TypeReject)) > 0 {
			continue
		}

		followObj := follow.Main().Get(tap.PredObject)
		if len(followObj) != 1 {
			return tap.ErrInvalidFollowResponse
		}
		followObjID, ok := followObj[0].(tap.IDPointer)
		if !ok || followObjID.ID != tctx.User.Subject {
			return tap.ErrInvalidFollowResponse
		}

		for _, ap := range follow.Main().Get(tap.PredActor) {
			actorID, ok := ap.(tap.IDPointer)
			if !ok {
				continue
			}
			actor, err := tctx.Entities.Get(ctx, actorID.ID, true)
			if err != nil {
				return fmt.Errorf("server_follow: %w", err)
			}
			if actor == nil || !actor.IsOwned(tctx) {
				continue
			}
			followingPtrs := actor.Main().Get(tap.PredFollowing)
			if len(followingPtrs) != 1 {
				continue
			}
			followingColl, ok := followingPtrs[0].(tap.IDPointer)
			if !ok {
				continue
			}

			if isAccept {
				if err := tctx.Entities.InsertCollection(ctx, followingColl.ID, tctx.User.Subject); err != nil {
					return fmt.Errorf("server_follow: %w", err)
				}
			} else {
				if err := tctx.Entities.RemoveCollection(ctx, followingColl.ID, tctx.User.Subject); err != nil {
					return fmt.Errorf("server_follow: %w", err)
				}
			}
		}

		if isAccept {
			follow.Meta().Set(tap.TypeAccept, []tap.Pointer{tap.IDPointer{ID: root.ID}})
		} else {
			follow.Meta().Set(tap.TypeReject, []tap.Pointer{tap.IDPointer{ID: root.ID}})
		}
		if err := tctx.Entities.Put(ctx, follow.ID, follow); err != nil {
			return fmt.Errorf("server_follow: %w", err)
		}
	}

	return nil
}
