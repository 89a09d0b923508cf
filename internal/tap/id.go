package tap

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
)

// defaultIDAssignRetries is used when Context.IDAssignRetries is unset.
const defaultIDAssignRetries = 3

// idAlphabet is the fixed 32-symbol suggestion alphabet.
var idAlphabet = [32]byte{
	'y', 'b', 'n', 'd', 'r', 'f', 'g', '8', 'e', 'j', 'k', 'm', 'c', 'p', 'q', 'x',
	'o', 't', '1', 'u', 'w', 'i', 's', 'z', 'a', '3', '4', '5', 'h', '7', '6', '9',
}

// getSuggestion generates a random candidate suggestion: an 8-character
// two-group token at depth 0, a 4-character token otherwise.
func getSuggestion(depth int) string {
	var raw [8]byte
	_, _ = rand.Read(raw[:])

	var buf [8]byte
	for i, b := range raw {
		buf[i] = idAlphabet[b&0b11111]
	}

	if depth == 0 {
		return string(buf[:4]) + "-" + string(buf[4:])
	}
	return string(buf[:4])
}

// shortnameSuggestion generates a suggestion for an entity's short URL
// name: preferred first from as:preferredUsername (prefixed "~"), else
// the local name of the first @type when the entity has no as:actor.
func shortnameSuggestion(main *Entity) (string, bool) {
	if vals := main.Get(PredPreferredName); len(vals) > 0 {
		if vp, ok := vals[0].(ValuePointer); ok {
			if s, ok := vp.Value.Raw.(string); ok {
				return translateName(PredPreferredName, s), true
			}
		}
	}

	if len(main.Types) > 0 && len(main.Get(PredActor)) == 0 {
		local := main.Types[0]
		if idx := strings.LastIndexByte(local, '#'); idx >= 0 {
			local = local[idx+1:]
		}
		return translateName("@type", local), true
	}

	return "", false
}

// translateName sanitises name to at most 15 characters, keeping
// lower-cased alphanumerics and turning everything else into '-'. The
// preferredUsername predicate is additionally prefixed with "~".
func translateName(predicate, name string) string {
	var b strings.Builder
	if predicate == PredPreferredName {
		b.WriteByte('~')
	}

	count := 0
	for _, ch := range name {
		if count >= 15 {
			break
		}
		count++
		if ch < 128 && isAlphaNumeric(byte(ch)) {
			b.WriteByte(toLowerASCII(byte(ch)))
		} else if ch >= 128 {
			b.WriteByte('-')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func isAlphaNumeric(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func toLowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// AssignID finds an unused IRI for a new entity, based on an optional
// suggestion, an optional parent (defaults to ctx.ServerBase), and the
// entity's depth in the batch being assigned.
func AssignID(ctx context.Context, tctx *Context, suggestion string, parent string, depth int) (string, error) {
	if parent == "" {
		parent = tctx.ServerBase
	}
	if suggestion == "" {
		suggestion = getSuggestion(depth)
	}

	candidate := joinParent(parent, suggestion)
	existing, err := tctx.Entities.Get(ctx, candidate, false)
	if err != nil {
		return "", fmt.Errorf("assign id: %w", err)
	}
	if existing == nil {
		return candidate, nil
	}

	retries := tctx.IDAssignRetries
	if retries <= 0 {
		retries = defaultIDAssignRetries
	}

	for i := 0; i < retries; i++ {
		candidate = joinParent(parent, getSuggestion(depth))
		existing, err := tctx.Entities.Get(ctx, candidate, false)
		if err != nil {
			return "", fmt.Errorf("assign id: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}

	return "", ErrIDAssignmentExhausted
}

func joinParent(parent, suggestion string) string {
	if strings.HasSuffix(parent, "/") {
		return parent + suggestion
	}
	return parent + "/" + suggestion
}

type idGraphEntry struct {
	parent string
	depth  int
}

// AssignIDs assigns fresh server-hosted IRIs to a batch of untangled
// StoreItems, rewriting every internal cross-reference through the
// resulting remap table. root names the key whose renamed id is
// returned; when root is empty, the first key in sorted order is used.
// Returns the renamed batch and the renamed root.
func AssignIDs(ctx context.Context, tctx *Context, parent string, data map[string]*StoreItem, root string) (map[string]*StoreItem, string, error) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if root == "" && len(keys) > 0 {
		root = keys[0]
	}

	graph := map[string]idGraphEntry{}
	remap := map[string]string{}
	out := map[string]*StoreItem{}

	for _, id := range keys {
		item := data[id]

		entryParent, depth := parent, 0
		if e, ok := graph[id]; ok {
			entryParent, depth = e.parent, e.depth
			delete(graph, id)
		}

		suggestion, _ := shortnameSuggestion(item.Main())

		var newID string
		for {
			candidate, err := AssignID(ctx, tctx, suggestion, entryParent, depth)
			if err != nil {
				return nil, "", err
			}
			suggestion = ""
			if _, taken := out[candidate]; !taken {
				newID = candidate
				break
			}
		}

		outgoing := map[string]bool{}
		collectLocalOutgoingIDs(tctx, item.Main(), outgoing)
		for ref := range outgoing {
			graph[ref] = idGraphEntry{parent: newID, depth: depth + 1}
		}

		inner := item.Data[item.ID]
		delete(item.Data, item.ID)
		inner.ID = newID
		item.Data[newID] = inner
		item.ID = newID

		item.Meta().Append(KroegInstance, ValuePointer{Value: Value{Raw: float64(tctx.InstanceID)}})

		remap[id] = newID
		out[newID] = item
	}

	for _, item := range out {
		renamePointers(item.Main(), remap)
	}

	return out, remap[root], nil
}

// collectLocalOutgoingIDs gathers subject ids referenced from entity
// that are either blank nodes or rooted under the server base — i.e.
// ids that name other subjects in the same untangle batch.
func collectLocalOutgoingIDs(tctx *Context, entity *Entity, out map[string]bool) {
	for _, values := range entity.Properties {
		collectLocalOutgoingIDsFromSlice(tctx, values, out)
	}
}

func collectLocalOutgoingIDsFromSlice(tctx *Context, values []Pointer, out map[string]bool) {
	for _, v := range values {
		switch p := v.(type) {
		case IDPointer:
			if strings.HasPrefix(p.ID, tctx.ServerBase) || IsBlank(p.ID) {
				out[p.ID] = true
			}
		case ListPointer:
			collectLocalOutgoingIDsFromSlice(tctx, p.Items, out)
		}
	}
}

// renamePointers rewrites every IDPointer in entity through remap,
// recursing into lists.
func renamePointers(entity *Entity, remap map[string]string) {
	for pred, values := range entity.Properties {
		entity.Properties[pred] = renamePointerSlice(values, remap)
	}
}

func renamePointerSlice(values []Pointer, remap map[string]string) []Pointer {
	out := make([]Pointer, len(values))
	for i, v := range values {
		switch p := v.(type) {
		case IDPointer:
			if newID, ok := remap[p.ID]; ok {
				out[i] = IDPointer{ID: newID}
			} else {
				out[i] = p
			}
		case ListPointer:
			out[i] = ListPointer{Items: renamePointerSlice(p.Items, remap)}
		default:
			out[i] = v
		}
	}
	return out
}
