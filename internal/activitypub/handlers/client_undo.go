package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// clientUndo undoes a Like, Follow, or Accept previously issued by the
// same actor. For a Like or Follow it removes the undone activity's own
// id from the subject's as:liked or as:following collection (a Follow
// is also stamped as:Reject on its meta); for an Accept it removes the
// accepted Follows' objects from the subject's as:followers.
func clientUndo(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("client_undo: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}
	if !root.Main().HasType(tap.TypeUndo) {
		return nil
	}

	objPtrs := root.Main().Get(tap.PredObject)
	if len(objPtrs) != 1 {
		return fmt.Errorf("%w: as:object", tap.ErrMissingRequired)
	}
	objID, ok := objPtrs[0].(tap.IDPointer)
	if !ok {
		return fmt.Errorf("%w: as:object", tap.ErrMissingRequired)
	}
	undone, err := tctx.Entities.Get(ctx, objID.ID, true)
	if err != nil {
		return fmt.Errorf("client_undo: %w", err)
	}
	if undone == nil {
		return tap.ErrMissingUndone
	}

	if !tap.SameIDMultiset(tap.PointerIDs(root.Main().Get(tap.PredActor)), tap.PointerIDs(undone.Main().Get(tap.PredActor))) {
		return tap.ErrDifferingActor
	}

	subject, err := tctx.Entities.Get(ctx, tctx.User.Subject, true)
	if err != nil {
		return fmt.Errorf("client_undo: %w", err)
	}
	if subject == nil {
		return tap.ErrMissingActor
	}

	switch {
	case undone.Main().HasType(tap.TypeLike):
		if liked := subject.Main().Get(tap.PredLiked); len(liked) == 1 {
			if coll, ok := liked[0].(tap.IDPointer); ok {
				if err := tctx.Entities.RemoveCollection(ctx, coll.ID, undone.ID); err != nil {
					return fmt.Errorf("client_undo: %w", err)
				}
			}
		}

	case undone.Main().HasType(tap.TypeFollow):
		if following := subject.Main().Get(tap.PredFollowing); len(following) == 1 {
			if coll, ok := following[0].(tap.IDPointer); ok {
				if err := tctx.Entities.RemoveCollection(ctx, coll.ID, undone.ID); err != nil {
					return fmt.Errorf("client_undo: %w", err)
				}
			}
		}
		undone.Meta().Set(tap.TypeReject, []tap.Pointer{tap.IDPointer{ID: root.ID}})
		if err := tctx.Entities.Put(ctx, undone.ID, undone); err != nil {
			return fmt.Errorf("client_undo: %w", err)
		}

	case undone.Main().HasType(tap.TypeAccept):
		if err := undoAccept(ctx, tctx, root, undone, subject); err != nil {
			return err
		}
	}

	return nil
}

func undoAccept(ctx context.Context, tctx *tap.Context, root, acceptUndone, subject *tap.StoreItem) error {
	for _, p := range acceptUndone.Main().Get(tap.PredObject) {
		id, ok := p.(tap.IDPointer)
		if !ok {
			continue
		}
		follow, err := tctx.Entities.Get(ctx, id.ID, true)
		if err != nil {
			return fmt.Errorf("client_undo: %w", err)
		}
		if follow == nil || !follow.IsOwned(tctx) || !follow.Main().HasType(tap.TypeFollow) {
			continue
		}
		if len(follow.Meta().Get(tap.TypeReject)) > 0 {
			continue
		}

		if followers := subject.Main().Get(tap.PredFollowers); len(followers) == 1 {
			if coll, ok := followers[0].(tap.IDPointer); ok {
				for _, fp := range follow.Main().Get(tap.PredObject) {
					personID, ok := fp.(tap.IDPointer)
					if !ok {
						continue
					}
					if err := tctx.Entities.RemoveCollection(ctx, coll.ID, personID.ID); err != nil {
						return fmt.Errorf("client_undo: %w", err)
					}
				}
			}
		}

		follow.Meta().Set(tap.TypeReject, []tap.Pointer{tap.IDPointer{ID: root.ID}})
		if err := tctx.Entities.Put(ctx, follow.ID, follow); err != nil {
			return fmt.Errorf("client_undo: %w", err)
		}
	}
	return nil
}
