package tap

import "errors"

// Error kinds surfaced by the core. Handlers wrap these with
// fmt.Errorf("...: %w", ...) when they need to attach the offending
// predicate or id; callers use errors.Is to classify a failure.
var (
	// ErrMissingRequired means a required predicate is absent or has
	// the wrong cardinality. Client-facing 4xx.
	ErrMissingRequired = errors.New("missing or malformed required predicate")

	// ErrExistingPredicate means the caller attempted to set a
	// server-managed predicate that was already populated.
	ErrExistingPredicate = errors.New("predicate is server-managed and already set")

	// ErrMissingObject means as:object did not resolve to a stored entity.
	ErrMissingObject = errors.New("object not found")

	// ErrMissingUndone means the activity targeted by an Undo was not found.
	ErrMissingUndone = errors.New("undone activity not found")

	// ErrMissingActor means as:actor did not resolve to a stored entity.
	ErrMissingActor = errors.New("actor not found")

	// ErrFailedToRetrieve means an expected entity-store read failed
	// or the root entity itself could not be fetched. 5xx.
	ErrFailedToRetrieve = errors.New("failed to retrieve entity")

	// ErrImproperActivity means an outbox request posted a bare
	// activity-typed object lacking as:actor.
	ErrImproperActivity = errors.New("improper activity: did you forget as:actor?")

	// ErrActorAttributedToDoNotMatch guards against impersonation: the
	// acting actor does not match the object's as:attributedTo.
	ErrActorAttributedToDoNotMatch = errors.New("actor does not match object attributedTo")

	// ErrNotAllowedToAct guards against spoofed as:actor values.
	ErrNotAllowedToAct = errors.New("subject is not allowed to act as this actor")

	// ErrDifferingActor guards Undo against undoing another actor's activity.
	ErrDifferingActor = errors.New("undo actor does not match undone activity actor")

	// ErrIDAssignmentExhausted is returned after assign_id has
	// exhausted its retry budget against colliding suggestions.
	ErrIDAssignmentExhausted = errors.New("exhausted retries assigning a fresh id")

	// ErrInvalidQuery is returned by the QuadQuery parser for malformed input.
	ErrInvalidQuery = errors.New("invalid quad query")

	// ErrInvalidFollowResponse means an Accept/Reject targets a Follow
	// whose as:object does not name the accepting/rejecting subject.
	ErrInvalidFollowResponse = errors.New("follow as:object does not name the accepting subject")
)
