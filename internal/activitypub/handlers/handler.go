// Package handlers implements the fixed outbox and inbox handler chains
// that carry out validation and side effects for one activity posted to
// a context's root entity.
package handlers

import (
	"context"

	"github.com/kroeg/tap/internal/tap"
)

// Handler validates or mutates the entity/collection state reachable
// from rootID. Mutating *rootID redirects every handler run after this
// one; this is the only channel a handler has to influence the rest of
// the chain. inboxID names the inbox the activity was posted to; no
// handler in either chain writes it.
type Handler func(ctx context.Context, tctx *tap.Context, inboxID *string, rootID *string) error

// OutboxChain is the fixed client-to-server handler order.
var OutboxChain = []Handler{
	verifyRequired(true),
	createActor,
	autoCreate,
	clientCreate,
	clientLike,
	clientUndo,
}

// InboxChain is the fixed server-to-server handler order.
var InboxChain = []Handler{
	verifyRequired(false),
	serverCreate,
	serverLike,
	serverFollow,
}

// Run applies chain in order over rootID, aborting at the first error.
func Run(ctx context.Context, tctx *tap.Context, chain []Handler, inboxID *string, rootID *string) error {
	for _, h := range chain {
		if err := h(ctx, tctx, inboxID, rootID); err != nil {
			return err
		}
	}
	return nil
}
