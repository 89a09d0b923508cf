package tap

import (
	"context"

	"github.com/worldline-go/types"
)

// QueueItem is an opaque unit of follow-up work with at-least-once
// delivery semantics.
type QueueItem struct {
	ID        string
	Event     string
	Data      string
	CreatedAt types.Time
}

// QueueStore is the durable work queue collaborator. No ordering
// guarantee is made across items.
type QueueStore interface {
	// GetItem dequeues a single item, or returns (nil, nil) if the
	// queue is empty.
	GetItem(ctx context.Context) (*QueueItem, error)

	// MarkSuccess acknowledges successful processing of item.
	MarkSuccess(ctx context.Context, item QueueItem) error

	// MarkFailure returns item to the queue for redelivery.
	MarkFailure(ctx context.Context, item QueueItem) error

	// Add enqueues a new item of the given event kind and payload.
	Add(ctx context.Context, event string, data string) error
}
