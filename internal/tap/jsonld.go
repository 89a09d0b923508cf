package tap

import (
	"fmt"
	"sort"
)

// toNodeList normalises the top level of an expanded JSON-LD document
// into a list of node objects: a bare node, an array of nodes, or a
// {"@graph": [...]} wrapper restricted to the default graph.
func toNodeList(doc any) ([]map[string]any, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			return toNodeList(graph)
		}
		return []map[string]any{v}, nil
	case []any:
		var out []map[string]any
		for _, elem := range v {
			nodes, err := toNodeList(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unexpected top-level value %T", ErrMalformedJSONLD, doc)
	}
}

// flattenNode recursively flattens a single expanded JSON-LD node
// object into flat, adding it (and every embedded node it references)
// to out, and returns its subject id.
func flattenNode(node map[string]any, gen *blankNodeGen, out map[string]*Entity) (string, error) {
	id, err := nodeID(node, gen)
	if err != nil {
		return "", err
	}

	entity, ok := out[id]
	if !ok {
		entity = NewEntity(id)
		out[id] = entity
	}

	if typesRaw, ok := node["@type"]; ok {
		types, err := stringList(typesRaw)
		if err != nil {
			return "", fmt.Errorf("%w: @type: %v", ErrMalformedJSONLD, err)
		}
		entity.Types = append(entity.Types, types...)
	}

	if idxRaw, ok := node["@index"]; ok {
		idx, ok := idxRaw.(string)
		if !ok {
			return "", fmt.Errorf("%w: @index must be a string", ErrMalformedJSONLD)
		}
		entity.Index = idx
	}

	// Visit keys in sorted order so embedded blank nodes get the same
	// generator labels on every run.
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := node[key]
		if key == "@id" || key == "@type" || key == "@index" || key == "@context" {
			continue
		}

		values, ok := raw.([]any)
		if !ok {
			values = []any{raw}
		}

		for _, v := range values {
			ptr, err := flattenValue(v, gen, out)
			if err != nil {
				return "", err
			}
			entity.Append(key, ptr)
		}
	}

	return id, nil
}

func nodeID(node map[string]any, gen *blankNodeGen) (string, error) {
	idRaw, ok := node["@id"]
	if !ok {
		return gen.next(), nil
	}
	id, ok := idRaw.(string)
	if !ok {
		return "", fmt.Errorf("%w: @id must be a string", ErrMalformedJSONLD)
	}
	return id, nil
}

// flattenValue converts one expanded JSON-LD value position (a node
// reference, a value object, or a list) into a Pointer, recursively
// flattening embedded node objects into out.
func flattenValue(v any, gen *blankNodeGen, out map[string]*Entity) (Pointer, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object in value position, got %T", ErrMalformedJSONLD, v)
	}

	if listRaw, ok := obj["@list"]; ok {
		items, ok := listRaw.([]any)
		if !ok {
			items = []any{listRaw}
		}
		var ptrs []Pointer
		for _, item := range items {
			p, err := flattenValue(item, gen, out)
			if err != nil {
				return nil, err
			}
			if _, isList := p.(ListPointer); isList {
				return nil, fmt.Errorf("%w: lists must not directly contain other lists", ErrMalformedJSONLD)
			}
			ptrs = append(ptrs, p)
		}
		return ListPointer{Items: ptrs}, nil
	}

	if valRaw, ok := obj["@value"]; ok {
		val := Value{Raw: valRaw}
		if t, ok := obj["@type"].(string); ok {
			val.TypeID = t
		}
		if l, ok := obj["@language"].(string); ok {
			val.Language = l
		}
		return ValuePointer{Value: val}, nil
	}

	// Either a bare reference {"@id": "..."} or an embedded node with
	// its own properties; either way it flattens to an IDPointer plus
	// (for embedded nodes) an entry in out.
	id, err := flattenNode(obj, gen, out)
	if err != nil {
		return nil, err
	}
	return IDPointer{ID: id}, nil
}

func stringList(v any) ([]string, error) {
	switch vv := v.(type) {
	case string:
		return []string{vv}, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, elem := range vv {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", elem)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or array of strings, got %T", v)
	}
}
