package jsongraph

import (
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/tree"
	"github.com/matzehuels/jsongraph/pkg/value"
)

// Builder wraps the tree built from one JSON document.
// It is read-only after construction and safe for concurrent use.
type Builder struct {
	root   *tree.Node
	nodes  int
	logger *log.Logger
	ids    tree.IDGenerator
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDs sets the ID generator. The default is [tree.ProcessIDs].
func WithIDs(ids tree.IDGenerator) Option {
	return func(b *Builder) { b.ids = ids }
}

// WithLogger sets the logger used to report construction.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// New builds the tree for v. The root node is named "".
func New(v value.Value, opts ...Option) (*Builder, error) {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.ids == nil {
		b.ids = tree.ProcessIDs()
	}
	if b.logger == nil {
		b.logger = log.Default()
	}

	root, err := b.build(v)
	if err != nil {
		return nil, err
	}
	b.root = root
	b.logger.Debug("tree loaded", "nodes", b.nodes)
	return b, nil
}

// pending is a value waiting to become a node under parent.
type pending struct {
	parent *tree.Node
	name   string
	value  value.Value
}

// build walks v depth-first. Nodes are created when popped, so IDs follow
// document pre-order just as a recursive walk would assign them.
func (b *Builder) build(v value.Value) (*tree.Node, error) {
	var root *tree.Node
	stack := []pending{{name: "", value: v}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := tree.New(b.ids, p.name)
		b.nodes++
		if p.parent == nil {
			root = n
		} else if err := p.parent.AddChild(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "attach %q", p.name)
		}

		var err error
		stack, err = b.mapValue(stack, n, p.value)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

// mapValue classifies v: objects and arrays queue their members as children
// of n, anything else makes n a leaf.
func (b *Builder) mapValue(stack []pending, n *tree.Node, v value.Value) ([]pending, error) {
	switch t := v.(type) {
	case value.Object:
		return b.object(stack, n, t), nil
	case value.Array:
		return b.array(stack, n, t), nil
	case nil:
		v = value.Null{}
	}
	if err := n.SetValue(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "set value of %q", n.Name())
	}
	return stack, nil
}

// object queues members in reverse so they pop in document order.
func (b *Builder) object(stack []pending, n *tree.Node, obj value.Object) []pending {
	for i := len(obj) - 1; i >= 0; i-- {
		stack = append(stack, pending{parent: n, name: obj[i].Key, value: obj[i].Value})
	}
	return stack
}

// array names each element by its index.
func (b *Builder) array(stack []pending, n *tree.Node, arr value.Array) []pending {
	for i := len(arr) - 1; i >= 0; i-- {
		stack = append(stack, pending{parent: n, name: strconv.Itoa(i), value: arr[i]})
	}
	return stack
}

// Root returns the root node.
func (b *Builder) Root() *tree.Node { return b.root }

// NodeCount returns the number of nodes in the tree.
func (b *Builder) NodeCount() int { return b.nodes }

// Get lays out the tree, expanding at most depth container levels.
func (b *Builder) Get(depth tree.Depth) graph.Elements {
	return b.root.Get(depth)
}
