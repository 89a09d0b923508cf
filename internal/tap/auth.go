package tap

import "context"

// Authorizer decides visibility of stored items for the current request.
type Authorizer interface {
	CanShow(ctx context.Context, tctx *Context, item *StoreItem) (bool, error)
}

// audiencePredicates is the set of predicates can_show collects
// audience ids from.
var audiencePredicates = []string{
	PredTo, PredCC, PredBCC, PredBTo, PredActor, PredObject, PredAttributedTo,
}

// nonActorPredicates are the audience predicates that carry attribution
// rather than addressing: an item counts as addressed only when some
// audience predicate outside this set is populated.
var nonActorPredicates = map[string]bool{
	PredActor: true, PredAttributedTo: true, PredObject: true,
}

// DefaultAuthorizer implements the default visibility policy described
// in can_show: public/self addressing always passes; otherwise an
// audience member must resolve to a collection the subject belongs to.
type DefaultAuthorizer struct {
	Subject string
}

// NewDefaultAuthorizer builds a DefaultAuthorizer scoped to the
// request's authenticated subject.
func NewDefaultAuthorizer(tctx *Context) *DefaultAuthorizer {
	return &DefaultAuthorizer{Subject: tctx.User.Subject}
}

func (a *DefaultAuthorizer) CanShow(ctx context.Context, tctx *Context, item *StoreItem) (bool, error) {
	var audience []string
	hasNonActor := false

	for _, pred := range audiencePredicates {
		for _, p := range item.Main().Get(pred) {
			if !nonActorPredicates[pred] {
				hasNonActor = true
			}
			if id, ok := p.(IDPointer); ok {
				audience = append(audience, id.ID)
			}
		}
	}

	if !hasNonActor {
		return true, nil
	}

	for _, id := range audience {
		if id == ObjectPublic || id == a.Subject {
			return true, nil
		}
	}

	for _, id := range audience {
		coll, err := tctx.Entities.FindCollection(ctx, id, a.Subject)
		if err != nil {
			return false, err
		}
		if len(coll.Items) != 0 {
			return true, nil
		}
	}

	return false, nil
}

// LocalOnlyAuthorizer wraps another authorizer and short-circuits
// CanShow to false unless the item is owned by the current instance.
type LocalOnlyAuthorizer struct {
	Next Authorizer
}

func (a *LocalOnlyAuthorizer) CanShow(ctx context.Context, tctx *Context, item *StoreItem) (bool, error) {
	if !item.IsOwned(tctx) {
		return false, nil
	}
	return a.Next.CanShow(ctx, tctx, item)
}

// PointerIDs collects the IDPointer ids from a predicate's value
// sequence, for use as an unordered multiset-equality comparison.
func PointerIDs(values []Pointer) []string {
	return pointerIDSet(values)
}

// pointerIDSet collects the IDPointer ids from a predicate's value
// sequence, for use as an unordered multiset-equality comparison.
func pointerIDSet(values []Pointer) []string {
	var out []string
	for _, v := range values {
		if id, ok := v.(IDPointer); ok {
			out = append(out, id.ID)
		}
	}
	return out
}

// SameIDMultiset reports whether two id sequences are equal as multisets.
func SameIDMultiset(a, b []string) bool {
	return sameMultiset(a, b)
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := map[string]int{}
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// CanReplace decides whether new may overwrite old in a Put. Ownership
// is immutable and impersonation of as:actor/as:attributedTo/as:object
// is never allowed across a replace.
func CanReplace(old, new *StoreItem) bool {
	if old == nil {
		return true
	}

	if old.Main().HasType(TypeTombstone) {
		return false
	}
	if new.Main().HasType(TypeTombstone) {
		return true
	}

	oldInstance, oldOK := instanceOf(old)
	newInstance, newOK := instanceOf(new)
	if oldOK != newOK || oldInstance != newInstance {
		return false
	}

	if !sameMultiset(pointerIDSet(old.Main().Get(PredActor)), pointerIDSet(new.Main().Get(PredActor))) {
		return false
	}
	if !sameMultiset(pointerIDSet(old.Main().Get(PredAttributedTo)), pointerIDSet(new.Main().Get(PredAttributedTo))) {
		return false
	}
	if !sameMultiset(pointerIDSet(old.Main().Get(PredObject)), pointerIDSet(new.Main().Get(PredObject))) {
		return false
	}

	return true
}

func instanceOf(item *StoreItem) (uint32, bool) {
	meta, ok := item.Data[KroegMeta]
	if !ok {
		return 0, false
	}
	vals := meta.Get(KroegInstance)
	if len(vals) != 1 {
		return 0, false
	}
	vp, ok := vals[0].(ValuePointer)
	if !ok {
		return 0, false
	}
	n, ok := vp.Value.Raw.(float64)
	if !ok {
		return 0, false
	}
	return uint32(n), true
}
