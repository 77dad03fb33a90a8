package model

import "encoding/json"

// Model is the complete output graph of one parse call: an id-keyed element
// map plus an optional root package id. A Model is built wholesale by the
// parser and treated as read-only afterwards; the query methods below never
// mutate it, so concurrent readers need no locking.
type Model struct {
	Elements map[string]*Element `json:"elements"`
	Root     string              `json:"root,omitempty"`
}

// New creates an empty model.
func New() *Model {
	return &Model{Elements: make(map[string]*Element)}
}

// Add registers an element under its id.
func (m *Model) Add(el *Element) *Element {
	m.Elements[el.ID] = el
	return el
}

// Element looks up an element by id.
func (m *Model) Element(id string) (*Element, bool) {
	el, ok := m.Elements[id]
	return el, ok
}

// Children returns the elements named by the parent's child-id list, in
// declaration order. Ids that no longer resolve are dropped; an unresolvable
// id would indicate a construction bug, not a legitimate runtime state.
func (m *Model) Children(id string) []*Element {
	parent, ok := m.Elements[id]
	if !ok {
		return nil
	}
	out := make([]*Element, 0, len(parent.Children))
	for _, cid := range parent.Children {
		if child, ok := m.Elements[cid]; ok {
			out = append(out, child)
		}
	}
	return out
}

// RootElements returns the children of the root package, or nil when the
// document declared no package at all.
func (m *Model) RootElements() []*Element {
	if m.Root == "" {
		return nil
	}
	return m.Children(m.Root)
}

// ByKind returns all elements carrying the given kind tag. This is a linear
// scan of the element map on every call, which is fine at demonstration
// scale (tens to low hundreds of elements); keep a secondary index if models
// ever grow past that.
func (m *Model) ByKind(kind Kind) []*Element {
	var out []*Element
	for _, el := range m.Elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

// PartDefs returns every part definition in the model, in no particular order.
func (m *Model) PartDefs() []*Element { return m.ByKind(KindPartDef) }

// Connections returns every connection in the model, in no particular order.
func (m *Model) Connections() []*Element { return m.ByKind(KindConnection) }

// ToJSON serializes the model for the rendering/UI collaborators.
func (m *Model) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// FromJSON reconstructs a model previously serialized with ToJSON.
func FromJSON(data []byte) (*Model, error) {
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if m.Elements == nil {
		m.Elements = make(map[string]*Element)
	}
	return m, nil
}
