package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/tap"
)

// objectCollections is the fixed set of collections client_create links
// onto a Create's object.
var objectCollections = []struct {
	name      string
	predicate string
}{
	{"likes", tap.PredLikes},
	{"shares", tap.PredShares},
	{"replies", tap.PredReplies},
}

// clientCreate links likes/shares/replies collections onto the object
// of a client-submitted Create.
func clientCreate(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("client_create: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}
	if !root.Main().HasType(tap.TypeCreate) {
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
	obj, err := tctx.Entities.Get(ctx, objID.ID, true)
	if err != nil {
		return fmt.Errorf("client_create: %w", err)
	}
	if obj == nil {
		return tap.ErrMissingObject
	}

	for _, c := range objectCollections {
		if len(obj.Main().Get(c.predicate)) > 0 {
			return fmt.Errorf("%w: %s", tap.ErrExistingPredicate, c.predicate)
		}
	}

	for _, c := range objectCollections {
		collID, err := tap.AssignID(ctx, tctx, c.name, obj.ID, 1)
		if err != nil {
			return fmt.Errorf("client_create: %w", err)
		}

		coll := tap.NewStoreItem(collID, nil)
		coll.Main().Types = []string{tap.TypeOrderedCollection}
		coll.Main().Set(tap.PredPartOf, []tap.Pointer{tap.IDPointer{ID: obj.ID}})
		coll.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(tctx.InstanceID)}})

		if err := tctx.Entities.Put(ctx, collID, coll); err != nil {
			return fmt.Errorf("client_create: %w", err)
		}
		obj.Main().Set(c.predicate, []tap.Pointer{tap.IDPointer{ID: collID}})
	}

	if err := tctx.Entities.Put(ctx, obj.ID, obj); err != nil {
		return fmt.Errorf("client_create: %w", err)
	}
	return nil
}
