package tree

import "github.com/matzehuels/jsongraph/pkg/graph"

// Depth limits how many container levels are expanded. Containers at the
// limit render as a single collapsed node.
type Depth int

// Unlimited expands the whole tree.
const Unlimited Depth = -1

// Limited reports whether d cuts the tree off at some level.
func (d Depth) Limited() bool { return d >= 0 }

// frame is a container whose children are still being placed.
type frame struct {
	node   *Node
	top    float64 // Y of the first child
	x      float64
	depth  Depth // budget handed to children
	next   int   // index of the child being placed
	bottom float64
	slot   int // reserved index in Elements.Nodes
}

// Get lays out the tree rooted at n and returns its records.
//
// Each container is centred vertically on the span of its children and
// children sit one LevelSpacing to the right, stacked SiblingSpacing apart.
// Leaves, empty containers and containers at the depth limit collapse to a
// single unexpanded node. Node records come in pre-order; an edge record is
// emitted once its child's subtree has been placed.
//
// The walk uses an explicit stack, so deeply nested documents do not grow
// the goroutine stack.
func (n *Node) Get(depth Depth) graph.Elements {
	l := layout{}
	l.enter(n, Point{}, depth)
	for len(l.stack) > 0 {
		f := l.stack[len(l.stack)-1]
		kids := f.node.Children()
		if f.next < len(kids) {
			at := Point{Y: f.bottom, X: f.x + LevelSpacing}
			if bottom, placed := l.enter(kids[f.next], at, f.depth); placed {
				l.childPlaced(f, bottom)
			}
			continue
		}

		bottom := f.bottom - SiblingSpacing
		mid := Point{Y: f.top + (bottom-f.top)/2, X: f.x}
		l.out.Nodes[f.slot] = f.node.RenderNode(mid, true)
		l.stack = l.stack[:len(l.stack)-1]
		if len(l.stack) > 0 {
			l.childPlaced(l.stack[len(l.stack)-1], bottom)
		}
	}
	return l.out
}

type layout struct {
	out   graph.Elements
	stack []*frame
}

// enter places a collapsed node immediately and reports its bottom, or
// reserves a record slot and pushes a frame for an expandable container.
func (l *layout) enter(n *Node, at Point, depth Depth) (float64, bool) {
	if len(n.Children()) == 0 || depth == 0 {
		l.out.Nodes = append(l.out.Nodes, n.RenderNode(at, false))
		return at.Y, true
	}

	childDepth := depth
	if depth.Limited() {
		childDepth--
	}
	l.stack = append(l.stack, &frame{
		node:   n,
		top:    at.Y,
		x:      at.X,
		depth:  childDepth,
		bottom: at.Y,
		slot:   len(l.out.Nodes),
	})
	l.out.Nodes = append(l.out.Nodes, graph.Node{})
	return 0, false
}

func (l *layout) childPlaced(f *frame, bottom float64) {
	l.out.Edges = append(l.out.Edges, f.node.RenderEdge(f.node.Children()[f.next]))
	f.bottom = bottom + SiblingSpacing
	f.next++
}
