package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Elements - Flat Node/Edge Sequence
// =============================================================================

// Elements is the rendered form of a tree: positioned node records followed
// by edge records.
//
// It serializes as a single JSON array in which every node record precedes
// every edge record, the element list a cytoscape-style renderer consumes:
//
//	[
//	  {"data": {"id": "1", "label": "", "expanded": true}, "position": {"x": 0, "y": 0}},
//	  {"data": {"id": "2", "label": "value", "expanded": false}, "position": {"x": 400, "y": 0}},
//	  {"data": {"source": "1", "target": "2", "label": " - name"}}
//	]
type Elements struct {
	Nodes []Node
	Edges []Edge
}

// Len returns the total number of records.
func (e Elements) Len() int { return len(e.Nodes) + len(e.Edges) }

// Flatten returns the records as one slice, nodes first.
func (e Elements) Flatten() []any {
	out := make([]any, 0, e.Len())
	for _, n := range e.Nodes {
		out = append(out, n)
	}
	for _, ed := range e.Edges {
		out = append(out, ed)
	}
	return out
}

// Node returns the node record with the given ID.
func (e Elements) Node(id string) (Node, bool) {
	for _, n := range e.Nodes {
		if n.Data.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// MarshalJSON writes the flat nodes-then-edges array.
func (e Elements) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Flatten())
}

// UnmarshalJSON splits a flat record array back into nodes and edges.
// Records carrying a "source" field are edges; everything else is a node.
func (e *Elements) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Nodes = e.Nodes[:0]
	e.Edges = e.Edges[:0]
	for i, r := range raw {
		var probe struct {
			Data map[string]json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if probe.Data == nil {
			return fmt.Errorf("record %d: missing data", i)
		}
		if _, ok := probe.Data["source"]; ok {
			var ed Edge
			if err := json.Unmarshal(r, &ed); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			e.Edges = append(e.Edges, ed)
			continue
		}
		var n Node
		if err := json.Unmarshal(r, &n); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		e.Nodes = append(e.Nodes, n)
	}
	return nil
}

// =============================================================================
// Node - Positioned Node Record
// =============================================================================

// Node is a positioned node record.
type Node struct {
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
}

// NodeData identifies and labels a node record.
type NodeData struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Expanded bool   `json:"expanded"`
}

// Position is a node's location. X grows with tree depth, Y with sibling order.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// =============================================================================
// Edge - Parent/Child Record
// =============================================================================

// Edge connects a container record to one of its children.
type Edge struct {
	Data EdgeData `json:"data"`
}

// EdgeData names both endpoints of an edge record.
type EdgeData struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}
