// Package model implements the identity-keyed semantic graph produced by one
// parse of a SysML-subset document, along with the read-only query layer the
// rendering and UI collaborators traverse.
//
// Elements form a tree: every element except the root package carries the id
// of its parent, and every parent keeps its child ids in declaration order.
// Cross-references (connection, bind and transition endpoints) are stored as
// raw qualified-name strings and are never resolved to element ids.
package model

// Kind discriminates the element variants. Dispatch on Kind explicitly; the
// variant-specific fields below are meaningful only for the kinds that
// declare them.
type Kind string

const (
	KindPackage        Kind = "package"
	KindItemDef        Kind = "itemDef"
	KindPortDef        Kind = "portDef"
	KindPort           Kind = "port"
	KindPartDef        Kind = "partDef"
	KindPart           Kind = "part"
	KindRequirementDef Kind = "requirementDef"
	KindStateDef       Kind = "stateDef"
	KindState          Kind = "state"
	KindTransition     Kind = "transition"
	KindConnection     Kind = "connection"
	KindBind           Kind = "bind"
)

// PortItem is one flow declaration inside a port definition body,
// e.g. "in item current: Amps;".
type PortItem struct {
	Direction string `json:"direction"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

// Element is a tagged variant discriminated by Kind. Ids are unique within a
// Model and assigned in parse order.
type Element struct {
	ID       string            `json:"id"`
	Kind     Kind              `json:"kind"`
	Name     string            `json:"name,omitempty"`
	Parent   string            `json:"parent,omitempty"`
	Children []string          `json:"children,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Port definition: ordered flow declarations.
	Items []PortItem `json:"items,omitempty"`

	// Port/part usage: name of the referenced definition, unresolved.
	DefRef string `json:"defRef,omitempty"`

	// Part usage: multiplicity literal from "[N]".
	Multiplicity string `json:"multiplicity,omitempty"`

	// Part definition: convenience subsets of Children, same relative order.
	Ports []string `json:"ports,omitempty"`
	Parts []string `json:"parts,omitempty"`

	// Requirement definition.
	ReqID string `json:"reqId,omitempty"`
	Text  string `json:"text,omitempty"`

	// State-machine definition: convenience subsets of Children.
	States      []string `json:"states,omitempty"`
	Transitions []string `json:"transitions,omitempty"`

	// State: entry action name, if declared.
	EntryAction string `json:"entryAction,omitempty"`

	// Transition: raw state names and optional trigger.
	// Connection/bind: raw dot-separated qualified names.
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Trigger string `json:"trigger,omitempty"`
}

// NewElement creates an element of the given kind with an empty metadata map.
func NewElement(id string, kind Kind, name, parent string) *Element {
	return &Element{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Parent:   parent,
		Metadata: make(map[string]string),
	}
}
