// Package view builds the JSON structures the external rendering and UI
// collaborators consume: a tree for the model explorer and a node/edge
// diagram for the structural view. Both are pure reads over a completed
// model; no layout, styling or name resolution happens here.
package view

import (
	"github.com/david-basis/archmodel/model"
)

// TreeNode is one entry in the model explorer tree.
type TreeNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name,omitempty"`
	Kind     model.Kind  `json:"kind"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Tree builds the explorer tree rooted at the model's package. A model
// without a root package yields an empty forest.
func Tree(m *model.Model) []*TreeNode {
	if m.Root == "" {
		return nil
	}
	root, ok := m.Element(m.Root)
	if !ok {
		return nil
	}
	return []*TreeNode{treeNode(m, root)}
}

func treeNode(m *model.Model, el *model.Element) *TreeNode {
	node := &TreeNode{ID: el.ID, Name: el.Name, Kind: el.Kind}
	for _, child := range m.Children(el.ID) {
		node.Children = append(node.Children, treeNode(m, child))
	}
	return node
}

// Node is a diagram node: one per part definition, with its port usage names
// as labels.
type Node struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Ports []string `json:"ports,omitempty"`
}

// Edge is a diagram edge. Endpoints are the verbatim qualified-name strings
// from the connection element; matching them against node names is the
// renderer's concern.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Diagram is the node/edge structure behind the structural diagram.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildDiagram collects part definitions as nodes and connections as edges.
func BuildDiagram(m *model.Model) *Diagram {
	d := &Diagram{Nodes: make([]Node, 0), Edges: make([]Edge, 0)}

	for _, def := range m.PartDefs() {
		node := Node{ID: def.ID, Name: def.Name}
		for _, pid := range def.Ports {
			if port, ok := m.Element(pid); ok {
				node.Ports = append(node.Ports, port.Name)
			}
		}
		d.Nodes = append(d.Nodes, node)
	}

	for _, conn := range m.Connections() {
		d.Edges = append(d.Edges, Edge{ID: conn.ID, Source: conn.Source, Target: conn.Target})
	}
	return d
}
