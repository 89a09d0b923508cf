package handlers

import (
	"context"
	"fmt"

	"github.com/kroeg/tap/internal/crypto"
	"github.com/kroeg/tap/internal/tap"
)

// actorCollections is the fixed table of collections create_actor links
// onto a freshly detected Person, total over the five boxes. isBox marks
// inbox/outbox, whose collection meta gets a kroeg:box pointer back at
// the collection's own predicate so consumers can recognise a delivery
// target without re-deriving it from the predicate name.
var actorCollections = []struct {
	name      string
	predicate string
	isBox     bool
}{
	{"inbox", tap.PredInbox, true},
	{"outbox", tap.PredOutbox, true},
	{"following", tap.PredFollowing, false},
	{"followers", tap.PredFollowers, false},
	{"liked", tap.PredLiked, false},
}

// createActor detects a Person either directly or wrapped in a Create
// and, if one is found with no boxes yet, links the five actor
// collections and a fresh RSA key pair onto it.
func createActor(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
	root, err := tctx.Entities.Get(ctx, *rootID, true)
	if err != nil {
		return fmt.Errorf("create_actor: %w", err)
	}
	if root == nil {
		return tap.ErrFailedToRetrieve
	}

	person := root
	if root.Main().HasType(tap.TypeCreate) {
		if objPtrs := root.Main().Get(tap.PredObject); len(objPtrs) == 1 {
			if id, ok := objPtrs[0].(tap.IDPointer); ok {
				obj, err := tctx.Entities.Get(ctx, id.ID, true)
				if err != nil {
					return fmt.Errorf("create_actor: %w", err)
				}
				if obj != nil && obj.Main().HasType(tap.TypePerson) {
					person = obj
				}
			}
		}
	}

	if !person.Main().HasType(tap.TypePerson) {
		return nil
	}

	for _, c := range actorCollections {
		if len(person.Main().Get(c.predicate)) > 0 {
			return fmt.Errorf("%w: %s", tap.ErrExistingPredicate, c.predicate)
		}
	}
	if len(person.Main().Get(tap.PredPublicKey)) > 0 {
		return fmt.Errorf("%w: %s", tap.ErrExistingPredicate, tap.PredPublicKey)
	}

	for _, c := range actorCollections {
		collID, err := tap.AssignID(ctx, tctx, c.name, person.ID, 1)
		if err != nil {
			return fmt.Errorf("create_actor: %w", err)
		}

		coll := tap.NewStoreItem(collID, nil)
		coll.Main().Types = []string{tap.TypeOrderedCollection}
		coll.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(tctx.InstanceID)}})
		if c.isBox {
			coll.Meta().Set(tap.KroegBox, []tap.Pointer{tap.IDPointer{ID: c.predicate}})
		}

		if err := tctx.Entities.Put(ctx, collID, coll); err != nil {
			return fmt.Errorf("create_actor: %w", err)
		}
		person.Main().Set(c.predicate, []tap.Pointer{tap.IDPointer{ID: collID}})
	}

	keyPair, err := crypto.GenerateActorKeyPair()
	if err != nil {
		return fmt.Errorf("create_actor: %w", err)
	}
	keyID, err := tap.AssignID(ctx, tctx, "key", person.ID, 1)
	if err != nil {
		return fmt.Errorf("create_actor: %w", err)
	}

	key := tap.NewStoreItem(keyID, nil)
	key.Main().Types = []string{tap.TypeKey}
	key.Main().Set(tap.PredOwner, []tap.Pointer{tap.IDPointer{ID: person.ID}})
	key.Main().Set(tap.PredPublicKeyPem, []tap.Pointer{tap.ValuePointer{Value: tap.Value{Raw: keyPair.PublicKeyPEM}}})
	key.Meta().Set(tap.KroegPrivateKeyPem, []tap.Pointer{tap.ValuePointer{Value: tap.Value{Raw: keyPair.PrivateKeyPEM}}})
	key.Meta().Append(tap.KroegInstance, tap.ValuePointer{Value: tap.Value{Raw: float64(tctx.InstanceID)}})

	if err := tctx.Entities.Put(ctx, keyID, key); err != nil {
		return fmt.Errorf("create_actor: %w", err)
	}
	person.Main().Set(tap.PredPublicKey, []tap.Pointer{tap.IDPointer{ID: keyID}})

	if err := tctx.Entities.Put(ctx, person.ID, person); err != nil {
		return fmt.Errorf("create_actor: %w", err)
	}
	return nil
}
