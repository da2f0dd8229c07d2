// Package tree holds the node tree built from a JSON document and lays it out.
//
// A [Node] is either a [Leaf] (a scalar value) or a [Container] (ordered
// children); the variant is fixed by construction and mutation, so a node can
// never carry both. Every node gets an ID from an [IDGenerator]. The default
// is a process-wide [Sequence], which keeps IDs unique across trees; tests
// pass their own generator to get deterministic IDs.
//
// # Layout
//
// [Node.Get] flattens the tree into [graph.Elements]:
//
//	x = level * LevelSpacing                 (400 per level)
//	y = running offset, SiblingSpacing apart (20 between siblings)
//
// A container sits halfway along the vertical span of its children. With a
// limited [Depth], containers at the limit collapse into one node.
//
// For {"a": 1, "b": 2} the root lands at (0, 10) and its leaves at (400, 0)
// and (400, 20).
package tree
