// Package qml turns loaded theme views into QML scene trees.
package qml

import (
	"sort"
	"strings"
)

const indentUnit = "  "

// Node is one QML object. Props are emitted sorted; Extra lines follow the
// props verbatim, then anonymous children, then named children in the
// order they were set.
type Node struct {
	Type     string
	Props    map[string]string
	Extra    []string
	Children []*Node
	Named    []NamedChild
}

// NamedChild is a child bound to a property, such as `delegate: Text {`.
type NamedChild struct {
	Name string
	Node *Node
}

// NewNode creates a node. props may be nil.
func NewNode(typ string, props map[string]string) *Node {
	if props == nil {
		props = map[string]string{}
	}
	return &Node{Type: typ, Props: props}
}

// Set assigns a property.
func (n *Node) Set(key, value string) { n.Props[key] = value }

// Get returns a property.
func (n *Node) Get(key string) (string, bool) {
	v, ok := n.Props[key]
	return v, ok
}

// Has reports whether a property is set.
func (n *Node) Has(key string) bool {
	_, ok := n.Props[key]
	return ok
}

// Pop removes a property and returns its previous value.
func (n *Node) Pop(key string) (string, bool) {
	v, ok := n.Props[key]
	delete(n.Props, key)
	return v, ok
}

// Append adds anonymous children.
func (n *Node) Append(children ...*Node) { n.Children = append(n.Children, children...) }

// SetNamed binds a named child, replacing an earlier one with the same name.
func (n *Node) SetNamed(name string, child *Node) {
	for i := range n.Named {
		if n.Named[i].Name == name {
			n.Named[i].Node = child
			return
		}
	}
	n.Named = append(n.Named, NamedChild{Name: name, Node: child})
}

// Render returns the lines of the node at the given indent level.
func (n *Node) Render(indent int) []string {
	return n.render(indent, n.Type)
}

func (n *Node) render(indent int, header string) []string {
	pad := strings.Repeat(indentUnit, indent)
	sub := pad + indentUnit

	lines := []string{pad + header + " {"}

	propLines := make([]string, 0, len(n.Props))
	for key, val := range n.Props {
		propLines = append(propLines, sub+key+": "+val)
	}
	sort.Strings(propLines)
	lines = append(lines, propLines...)

	for _, extra := range n.Extra {
		lines = append(lines, sub+extra)
	}
	for _, child := range n.Children {
		lines = append(lines, child.Render(indent+1)...)
	}
	for _, named := range n.Named {
		lines = append(lines, named.Node.render(indent+1, named.Name+": "+named.Node.Type)...)
	}

	return append(lines, pad+"}")
}

// String renders the node at indent zero.
func (n *Node) String() string { return strings.Join(n.Render(0), "\n") }
