package tap

import (
	"fmt"
	"sort"
)

// ErrMalformedJSONLD is returned by Untangle when the input document is
// not legal JSON-LD (expanded form).
var ErrMalformedJSONLD = fmt.Errorf("malformed json-ld document")

// blankNodeGen assigns stable blank-node labels to embedded node
// objects that lack an explicit @id.
type blankNodeGen struct {
	counter int
}

func (g *blankNodeGen) next() string {
	id := fmt.Sprintf("_:b%d", g.counter)
	g.counter++
	return id
}

// Untangle flattens an arbitrary expanded JSON-LD document (context
// expansion and normalisation are assumed to have already happened
// upstream) into a disjoint family of StoreItems, renaming blank nodes
// so repeated uploads of the same document produce stable ids for every
// blank node rooted under a non-blank subject. A blank node with no
// non-blank ancestor gets a random "_:unrooted-..." label instead.
func Untangle(doc any) (map[string]*StoreItem, error) {
	flattened := map[string]*Entity{}
	gen := &blankNodeGen{}

	roots, err := toNodeList(doc)
	if err != nil {
		return nil, err
	}
	for _, node := range roots {
		if _, err := flattenNode(node, gen, flattened); err != nil {
			return nil, err
		}
	}

	// Drop subjects whose predicate set is empty: pure references.
	for k, v := range flattened {
		if len(v.Properties) == 0 {
			delete(flattened, k)
		}
	}

	outgoing := map[string][]string{}
	incoming := map[string]map[string]bool{}

	for key, item := range flattened {
		var edges []string
		for _, values := range item.Properties {
			collectReferencedIDs(values, &edges)
		}

		if _, ok := incoming[key]; !ok {
			incoming[key] = map[string]bool{}
		}

		for _, target := range edges {
			if _, ok := flattened[target]; !ok {
				continue
			}
			if _, ok := incoming[target]; !ok {
				incoming[target] = map[string]bool{}
			}
			incoming[target][key] = true
		}

		outgoing[key] = edges
	}

	order := topoOrder(outgoing, incoming)

	rewrite := map[string]string{}
	for _, id := range order {
		if !IsBlank(id) {
			continue
		}
		if _, done := rewrite[id]; done {
			continue
		}

		if ancestor, ok := findNonBlankAncestor(outgoing, id, map[[2]string]bool{}); ok {
			n := len(rewrite)
			if IsBlank(ancestor) {
				rewrite[id] = fmt.Sprintf("%s:b%d", ancestor, n)
			} else {
				rewrite[id] = fmt.Sprintf("_:%s:b%d", ancestor, n)
			}
		} else {
			n := len(rewrite)
			rewrite[id] = fmt.Sprintf("_:unrooted-%s-%s-%s:b%d", getSuggestion(0), getSuggestion(0), getSuggestion(0), n)
		}
	}

	out := map[string]*StoreItem{}
	for key, item := range flattened {
		for pred, values := range item.Properties {
			item.Properties[pred] = renamePointerSlice(values, rewrite)
		}
		newID := key
		if renamed, ok := rewrite[key]; ok {
			newID = renamed
			item.ID = newID
		}
		out[newID] = NewStoreItem(newID, map[string]*Entity{newID: item})
	}

	return out, nil
}

func collectReferencedIDs(values []Pointer, out *[]string) {
	for _, v := range values {
		switch p := v.(type) {
		case IDPointer:
			*out = append(*out, p.ID)
		case ListPointer:
			collectReferencedIDs(p.Items, out)
		}
	}
}

// topoOrder repeatedly removes subjects with no remaining incoming
// edges; leftover subjects (cycles) are appended in sorted order for
// determinism.
func topoOrder(outgoing map[string][]string, incoming map[string]map[string]bool) []string {
	remaining := map[string]map[string]bool{}
	for k, v := range incoming {
		cp := map[string]bool{}
		for e := range v {
			cp[e] = true
		}
		remaining[k] = cp
	}

	var order []string
	for {
		var next string
		found := false

		keys := make([]string, 0, len(remaining))
		for k := range remaining {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if len(remaining[k]) == 0 {
				next, found = k, true
				break
			}
		}
		if !found {
			break
		}

		delete(remaining, next)
		for _, target := range outgoing[next] {
			if s, ok := remaining[target]; ok {
				delete(s, next)
			}
		}
		order = append(order, next)
	}

	var cyclic []string
	for k := range remaining {
		if _, ok := outgoing[k]; ok {
			cyclic = append(cyclic, k)
		}
	}
	sort.Strings(cyclic)
	order = append(order, cyclic...)

	return order
}

// findNonBlankAncestor performs a reversed-edge DFS from item to find a
// non-blank ancestor, walking through blank ancestors on the way. It
// never returns a blank ancestor, even one that has already been renamed.
func findNonBlankAncestor(outgoing map[string][]string, item string, visited map[[2]string]bool) (string, bool) {
	keys := make([]string, 0, len(outgoing))
	for k := range outgoing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, candidate := range keys {
		edge := [2]string{candidate, item}
		if visited[edge] {
			continue
		}
		visited[edge] = true

		if !containsString(outgoing[candidate], item) {
			continue
		}

		if !IsBlank(candidate) {
			return candidate, true
		}

		if ancestor, ok := findNonBlankAncestor(outgoing, candidate, visited); ok {
			return ancestor, true
		}
	}

	return "", false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
