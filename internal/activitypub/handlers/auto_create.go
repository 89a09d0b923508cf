package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// autoCreate wraps a bare object posted to the outbox in a synthesised
// Create activity, so that everything downstream only ever deals with
// activities.
func autoCreate(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("auto_create: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}

	if len(root.Main().Get(tap.PredActor)) > 0 {
		return nil
	}

	for _, t := range root.Main().Types {
		if tap.IsActivityType(t) {
			return tap.ErrImproperActivity
		}
	}

	activityID, err := tap.AssignID(ctx, tctx, "activity", root.ID, 1)
	if err != nil {
		return fmt.Errorf("auto_create: %w", err)
	}

	activity := tap.NewStoreItem(activityID, nil)
	activity.Main().Types = []string{tap.TypeCreate}
	activity.Main().Set(tap.PredObject, []tap.Pointer{tap.IDPointer{ID: root.ID}})
	activity.Main().Set(tap.PredActor, []tap.Pointer{tap.IDPointer{ID: tctx.User.Subject}})
	activity.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(tctx.InstanceID)}})

	for _, pred := range tap.ToClonePredicates {
		if vals := root.Main().Get(pred); len(vals) > 0 {
			activity.Main().Set(pred, vals)
		}
	}

	if err := tctx.Entities.Put(ctx, activityID, activity); err != nil {
		return fmt.Errorf("auto_create: %w", err)
	}

	*rootID = activityID
	return nil
}
