package tap

// User carries the authorization data for a single request.
type User struct {
	// Subject is the actor IRI this token authenticates.
	Subject string

	// Issuer of the token, if any.
	Issuer string

	// Audience is the list of servers this token is meant for.
	Audience []string

	// TokenIdentifier is an opaque id used for revoking tokens.
	TokenIdentifier string

	// Claims holds unstructured claims for this token and user.
	Claims map[string]string
}

// Context is per-request state: never shared across requests, and
// never reused once the request completes.
type Context struct {
	User User

	// ServerBase is the origin used to mint new IRIs, e.g. "https://example.com".
	ServerBase string

	// InstanceID allows multiple logical instances to share one store.
	InstanceID uint32

	Name        string
	Description string

	// IDAssignRetries caps the number of re-suggested candidates
	// AssignID tries after its first collides. Zero means use
	// defaultIDAssignRetries.
	IDAssignRetries int

	// MaxAssembleDepth caps how deep Assemble recurses into
	// non-blank references before it stops inlining and returns a
	// bare id. Zero means use defaultMaxAssembleDepth.
	MaxAssembleDepth int

	Entities EntityStore
	Queue    QueueStore
}
