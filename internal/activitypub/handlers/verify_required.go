package handlers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kroeg/tap/internal/tap"
)

// verifyRequired rejects spoofed or ill-formed activities. local
// distinguishes the outbox (client-submitted) chain from the inbox
// (federated) chain, which apply slightly different activity-type and
// attribution rules.
func verifyRequired(local bool) Handler {
	return func(ctx context.Context, tctx *tap.Context, inboxID, rootID *string) error {
		root, err := tctx.Entities.Get(ctx, *rootID, true)
		if err != nil {
			return fmt.Errorf("verify_required: %w", err)
		}
		if root == nil {
			return tap.ErrFailedToRetrieve
		}

		actorPtrs := root.Main().Get(tap.PredActor)
		if len(actorPtrs) != 1 {
			return fmt.Errorf("%w: as:actor", tap.ErrMissingRequired)
		}
		actorID, ok := actorPtrs[0].(tap.IDPointer)
		if !ok {
			return fmt.Errorf("%w: as:actor", tap.ErrMissingRequired)
		}
		actor := actorID.ID

		switch {
		case actor == tctx.User.Subject:
			// the authenticated subject posted as itself
		case !sameOrigin(actor, tctx.User.Subject) && sameOrigin(actor, root.ID):
			// forwarded activity: authenticated subject relays an
			// activity authored on its own origin
		default:
			return tap.ErrNotAllowedToAct
		}

		applicable := map[string]bool{tap.TypeCreate: true, tap.TypeUpdate: true}
		if local {
			applicable[tap.TypeDelete] = true
		}
		needsAttribution := false
		for _, t := range root.Main().Types {
			if applicable[t] {
				needsAttribution = true
				break
			}
		}
		if !needsAttribution {
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
			return fmt.Errorf("verify_required: %w", err)
		}
		if obj == nil {
			return tap.ErrMissingObject
		}
		if obj.Main().HasType(tap.TypeTombstone) {
			return nil
		}

		attributed := obj.Main().Get(tap.PredAttributedTo)
		matchesActor := false
		for _, p := range attributed {
			if id, ok := p.(tap.IDPointer); ok && id.ID == actor {
				matchesActor = true
				break
			}
		}

		switch {
		case !matchesActor:
			return tap.ErrActorAttributedToDoNotMatch
		case local && len(attributed) != 1 && obj.ID != actor:
			return tap.ErrActorAttributedToDoNotMatch
		case !local && len(attributed) == 0:
			return tap.ErrActorAttributedToDoNotMatch
		}

		return nil
	}
}

// sameOrigin reports whether a and b parse as absolute URLs sharing
// scheme, host, and port.
func sameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || !ua.IsAbs() {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil || !ub.IsAbs() {
		return false
	}
	return ua.Scheme == ub.Scheme && ua.Host == ub.Host
}
