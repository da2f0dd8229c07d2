package tree

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/value"
)

// Spacing between laid-out nodes.
const (
	// LevelSpacing separates tree levels along X.
	LevelSpacing = 400.0

	// SiblingSpacing separates consecutive siblings along Y.
	SiblingSpacing = 20.0
)

// Errors returned when a mutation would give a node both a value and children.
var (
	ErrLeafHasNoChildren    = errors.New("leaf node cannot have children")
	ErrContainerHasChildren = errors.New("container node already has children")
	ErrNotScalar            = errors.New("leaf value must be a scalar")
)

// Kind is either [Leaf] or [Container].
type Kind interface {
	isKind()
}

// Leaf holds a scalar JSON value.
type Leaf struct {
	Value value.Value
}

// Container holds the ordered children of an object or array.
type Container struct {
	Children []*Node
}

func (Leaf) isKind()      {}
func (Container) isKind() {}

// Node is one element of the tree built from a JSON document.
type Node struct {
	id   int64
	name string
	kind Kind
}

// New creates an empty container node named name, taking its ID from ids.
// A nil ids uses the process-wide counter.
func New(ids IDGenerator, name string) *Node {
	if ids == nil {
		ids = processIDs
	}
	return &Node{id: ids.NextID(), name: name, kind: Container{}}
}

// ID returns the node's identifier.
func (n *Node) ID() int64 { return n.id }

// Name returns the key or index that produced this node; "" for a root.
func (n *Node) Name() string { return n.name }

// Kind returns the node's variant for type switches.
func (n *Node) Kind() Kind { return n.kind }

// IsLeaf reports whether n holds a scalar.
func (n *Node) IsLeaf() bool {
	_, ok := n.kind.(Leaf)
	return ok
}

// Value returns the scalar of a leaf.
func (n *Node) Value() (value.Value, bool) {
	l, ok := n.kind.(Leaf)
	return l.Value, ok
}

// Children returns the children of a container, or nil for a leaf.
func (n *Node) Children() []*Node {
	if c, ok := n.kind.(Container); ok {
		return c.Children
	}
	return nil
}

// SetValue turns n into a leaf holding v.
func (n *Node) SetValue(v value.Value) error {
	if !value.IsScalar(v) {
		return fmt.Errorf("node %d: %w", n.id, ErrNotScalar)
	}
	if len(n.Children()) > 0 {
		return fmt.Errorf("node %d: %w", n.id, ErrContainerHasChildren)
	}
	n.kind = Leaf{Value: v}
	return nil
}

// AddChild appends child to n's children.
func (n *Node) AddChild(child *Node) error {
	c, ok := n.kind.(Container)
	if !ok {
		return fmt.Errorf("node %d: %w", n.id, ErrLeafHasNoChildren)
	}
	c.Children = append(c.Children, child)
	n.kind = c
	return nil
}

// Label is the scalar text for a leaf and the name otherwise.
func (n *Node) Label() string {
	if v, ok := n.Value(); ok {
		return value.Text(v)
	}
	return n.name
}

// Point is a layout coordinate.
type Point struct {
	Y float64
	X float64
}

// RenderNode returns n's node record at p.
func (n *Node) RenderNode(p Point, expanded bool) graph.Node {
	return graph.Node{
		Data: graph.NodeData{
			ID:       strconv.FormatInt(n.id, 10),
			Label:    n.Label(),
			Expanded: expanded,
		},
		Position: graph.Position{X: p.X, Y: p.Y},
	}
}

// RenderEdge returns the edge record from n to target.
func (n *Node) RenderEdge(target *Node) graph.Edge {
	return graph.Edge{
		Data: graph.EdgeData{
			Source: strconv.FormatInt(n.id, 10),
			Target: strconv.FormatInt(target.id, 10),
			Label:  n.name + " - " + target.name,
		},
	}
}

// Walk visits n and its descendants in pre-order, passing each node's level
// (0 for n). Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, level int) bool) {
	type item struct {
		node  *Node
		level int
	}
	stack := []item{{n, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.node, it.level) {
			continue
		}
		kids := it.node.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{kids[i], it.level + 1})
		}
	}
}
