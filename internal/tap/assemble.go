package tap

import (
	"context"
	"sort"
)

// defaultMaxAssembleDepth is used when Context.MaxAssembleDepth is
// unset: the recursion cap for non-blank, non-avoid-assemble
// predicates.
const defaultMaxAssembleDepth = 5

// avoidAssemble is the set of predicates that always behave as
// depth=999 (stop immediately), regardless of the ambient depth.
var avoidAssemble = map[string]bool{
	PredURL: true, PredInbox: true, PredOutbox: true, PredSharedInbox: true,
	PredHref: true, PredFollowers: true, PredFollowing: true,
	PredTo: true, PredCC: true, PredBTo: true, PredBCC: true, PredAudience: true,
	PredConversation: true,
}

// AssembledValue is the JSON-LD-shaped output of Assemble: either a
// bare reference ({"@id": ...}), an expanded object, a literal, or a
// list wrapper ({"@list": [...]})," represented generically so callers
// can marshal it with encoding/json without an intermediate model.
type AssembledValue = map[string]any

// Assemble produces a bounded, cycle-free JSON-LD view of item,
// filtered by authorizer.CanShow. seen tracks non-blank subjects
// already expanded in this traversal and must be fresh per top-level
// call, never shared globally.
func Assemble(ctx context.Context, tctx *Context, item *StoreItem, depth int, authorizer Authorizer, seen map[string]bool) (AssembledValue, error) {
	return assembleEntity(ctx, tctx, item.Main(), depth, item.Data, authorizer, seen)
}

func assembleEntity(ctx context.Context, tctx *Context, entity *Entity, depth int, items map[string]*Entity, authorizer Authorizer, seen map[string]bool) (AssembledValue, error) {
	out := AssembledValue{}

	if !IsBlank(entity.ID) {
		seen[entity.ID] = true
		out["@id"] = entity.ID
	}
	if entity.Index != "" {
		out["@index"] = entity.Index
	}

	types := entity.Types
	if types == nil {
		types = []string{}
	}
	out["@type"] = types

	preds := make([]string, 0, len(entity.Properties))
	for pred := range entity.Properties {
		preds = append(preds, pred)
	}
	sort.Strings(preds)

	for _, pred := range preds {
		values := entity.Properties[pred]
		effectiveDepth := depth
		if avoidAssemble[pred] {
			effectiveDepth = 999
		}

		rendered := make([]any, 0, len(values))
		for _, v := range values {
			val, err := assembleValue(ctx, tctx, v, effectiveDepth, items, authorizer, seen)
			if err != nil {
				return nil, err
			}
			rendered = append(rendered, val)
		}
		out[pred] = rendered
	}

	return out, nil
}

func assembleValue(ctx context.Context, tctx *Context, v Pointer, depth int, items map[string]*Entity, authorizer Authorizer, seen map[string]bool) (any, error) {
	switch p := v.(type) {
	case ValuePointer:
		return assembleLiteral(p.Value), nil

	case ListPointer:
		rendered := make([]any, 0, len(p.Items))
		for _, item := range p.Items {
			val, err := assembleValue(ctx, tctx, item, depth, items, authorizer, seen)
			if err != nil {
				return nil, err
			}
			rendered = append(rendered, val)
		}
		return AssembledValue{"@list": rendered}, nil

	case IDPointer:
		return assembleID(ctx, tctx, p.ID, depth, items, authorizer, seen)

	default:
		return nil, nil
	}
}

func assembleLiteral(v Value) any {
	out := AssembledValue{"@value": v.Raw}
	if v.TypeID != "" {
		out["@type"] = v.TypeID
	}
	if v.Language != "" {
		out["@language"] = v.Language
	}
	return out
}

func bareRef(id string) AssembledValue {
	return AssembledValue{"@id": id}
}

func assembleID(ctx context.Context, tctx *Context, id string, depth int, items map[string]*Entity, authorizer Authorizer, seen map[string]bool) (any, error) {
	// The meta subject carries server-only, possibly private material
	// (private-key PEM, instance id) and must never leak through the
	// assembler, even if something in the graph points at it directly.
	if id == KroegMeta {
		return bareRef(id), nil
	}

	if seen[id] {
		return bareRef(id), nil
	}

	if entity, ok := items[id]; ok {
		return assembleEntity(ctx, tctx, entity, depth+1, items, authorizer, seen)
	}

	maxDepth := tctx.MaxAssembleDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxAssembleDepth
	}
	if depth >= maxDepth && !IsBlank(id) {
		return bareRef(id), nil
	}

	resolved, err := getCollectionified(ctx, tctx, id)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return bareRef(id), nil
	}

	canShow := true
	if !IsBlank(resolved.ID) {
		canShow, err = authorizer.CanShow(ctx, tctx, resolved)
		if err != nil {
			return nil, err
		}
	}
	if !canShow {
		return bareRef(id), nil
	}

	seen[id] = true

	if resolved.Main().HasType(TypeOrderedCollection) {
		return bareRef(id), nil
	}

	nextDepth := depth + 1
	if IsBlank(resolved.ID) {
		nextDepth = depth
	}
	return assembleEntity(ctx, tctx, resolved.Main(), nextDepth, resolved.Data, authorizer, seen)
}

// getCollectionified resolves id, synthesising an OrderedCollectionPage
// when id carries a "&cursor" suffix onto an OrderedCollection base.
func getCollectionified(ctx context.Context, tctx *Context, id string) (*StoreItem, error) {
	base, cursor, paged := splitCursor(id)
	if !paged {
		return tctx.Entities.Get(ctx, id, true)
	}

	baseItem, err := tctx.Entities.Get(ctx, base, true)
	if err != nil {
		return nil, err
	}
	if baseItem == nil || !baseItem.Main().HasType(TypeOrderedCollection) {
		return nil, nil
	}

	page, err := tctx.Entities.ReadCollection(ctx, base, nil, cursor)
	if err != nil {
		return nil, err
	}

	items := make([]Pointer, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, IDPointer{ID: it})
	}

	entity := NewEntity(id)
	entity.Types = []string{TypeOrderedCollPage}
	entity.Set(PredPartOf, []Pointer{IDPointer{ID: base}})
	entity.Set("https://www.w3.org/ns/activitystreams#orderedItems", []Pointer{ListPointer{Items: items}})

	return NewStoreItem(id, map[string]*Entity{id: entity}), nil
}

func splitCursor(id string) (base string, cursor string, paged bool) {
	for i := 0; i < len(id); i++ {
		if id[i] == '&' {
			return id[:i], id[i+1:], true
		}
	}
	return id, "", false
}
