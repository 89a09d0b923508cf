package tap

import "strings"

// Value is a JSON-LD value literal: a raw scalar plus an optional
// datatype IRI or BCP-47 language tag. TypeID and Language are mutually
// exclusive.
type Value struct {
	Raw      any
	TypeID   string
	Language string
}

// Pointer is one of Id, a Value, or an ordered List of Pointers. The
// three variants have disjoint invariants — notably a List cannot
// directly contain another List — so this is modeled as a marker
// interface with a type assertion per variant, rather than a single
// struct with optional fields.
type Pointer interface {
	isPointer()
}

// IDPointer references another subject by IRI or blank-node label.
type IDPointer struct {
	ID string
}

func (IDPointer) isPointer() {}

// ValuePointer embeds a literal.
type ValuePointer struct {
	Value Value
}

func (ValuePointer) isPointer() {}

// ListPointer is an ordered RDF list. Items must not themselves be
// ListPointers.
type ListPointer struct {
	Items []Pointer
}

func (ListPointer) isPointer() {}

// IsBlank reports whether id names a blank node.
func IsBlank(id string) bool {
	return strings.HasPrefix(id, "_:")
}

// Entity is a single subject in a graph.
type Entity struct {
	ID         string
	Index      string
	Types      []string
	Properties map[string][]Pointer
}

// NewEntity returns an empty entity with the given id.
func NewEntity(id string) *Entity {
	return &Entity{ID: id, Properties: map[string][]Pointer{}}
}

// Get reads a predicate. An absent predicate yields an empty slice.
func (e *Entity) Get(predicate string) []Pointer {
	return e.Properties[predicate]
}

// Set overwrites a predicate's value sequence, materialising it if absent.
func (e *Entity) Set(predicate string, values []Pointer) {
	if e.Properties == nil {
		e.Properties = map[string][]Pointer{}
	}
	e.Properties[predicate] = values
}

// Append adds values to the end of a predicate's sequence.
func (e *Entity) Append(predicate string, values ...Pointer) {
	if e.Properties == nil {
		e.Properties = map[string][]Pointer{}
	}
	e.Properties[predicate] = append(e.Properties[predicate], values...)
}

// HasType reports whether t is among the entity's declared types.
func (e *Entity) HasType(t string) bool {
	for _, got := range e.Types {
		if got == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	out := &Entity{ID: e.ID, Index: e.Index, Types: append([]string(nil), e.Types...)}
	out.Properties = make(map[string][]Pointer, len(e.Properties))
	for k, v := range e.Properties {
		out.Properties[k] = append([]Pointer(nil), v...)
	}
	return out
}

// StoreItem is a named connected cluster: one main Entity plus any
// blank-node entities reachable only from it.
type StoreItem struct {
	ID   string
	Data map[string]*Entity

	blankCounter uint32
}

// NewStoreItem builds a StoreItem, creating the main entity if data
// does not already contain it.
func NewStoreItem(main string, data map[string]*Entity) *StoreItem {
	if data == nil {
		data = map[string]*Entity{}
	}
	if _, ok := data[main]; !ok {
		data[main] = NewEntity(main)
	}
	return &StoreItem{ID: main, Data: data}
}

// Main returns the main entity. Per the StoreItem invariant, data[id]
// always exists.
func (s *StoreItem) Main() *Entity {
	return s.Data[s.ID]
}

// Sub returns a blank-node sub-entity by id.
func (s *StoreItem) Sub(id string) (*Entity, bool) {
	e, ok := s.Data[id]
	return e, ok
}

// CreateBlank mints a fresh locally-scoped blank node inside this item
// and returns it for the caller to populate.
func (s *StoreItem) CreateBlank() *Entity {
	var id string
	for {
		s.blankCounter++
		id = "_:nb" + itoa(s.blankCounter)
		if _, exists := s.Data[id]; !exists {
			break
		}
	}
	e := NewEntity(id)
	s.Data[id] = e
	return e
}

// Meta returns the kroeg:meta sidecar entity, creating it if absent.
// Meta carries server-only properties (private-key PEM, instance id,
// box type) that must never leak through Assemble.
func (s *StoreItem) Meta() *Entity {
	e, ok := s.Data[KroegMeta]
	if !ok {
		e = NewEntity(KroegMeta)
		s.Data[KroegMeta] = e
	}
	return e
}

// IsOwned reports whether this item's meta instance id equals the
// current context's instance id.
func (s *StoreItem) IsOwned(ctx *Context) bool {
	meta, ok := s.Data[KroegMeta]
	if !ok {
		return false
	}
	vals := meta.Get(KroegInstance)
	if len(vals) != 1 {
		return false
	}
	vp, ok := vals[0].(ValuePointer)
	if !ok {
		return false
	}
	n, ok := vp.Value.Raw.(float64)
	return ok && uint32(n) == ctx.InstanceID
}

// Clone returns a deep copy of the item, as EntityStore.Get and Put
// implementations are expected to return/accept: StoreItems are value
// types, never shared mutable state across requests.
func (s *StoreItem) Clone() *StoreItem {
	out := &StoreItem{ID: s.ID, blankCounter: s.blankCounter}
	out.Data = make(map[string]*Entity, len(s.Data))
	for k, v := range s.Data {
		out.Data[k] = v.Clone()
	}
	return out
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
