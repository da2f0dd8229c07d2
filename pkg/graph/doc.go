// Package graph provides the serialization types for laid-out JSON trees.
//
// This package defines the wire format produced by the layout: a flat array
// of node records followed by edge records, ready for a graph renderer that
// takes pre-positioned elements.
//
// # Core Types
//
//   - [Elements]: the ordered record sequence (nodes, then edges)
//   - [Node], [NodeData], [Position]: a positioned node record
//   - [Edge], [EdgeData]: a container-to-child edge record
//   - [Stats]: record counts and layout extent
//
// # Record Format
//
// Node records:
//
//	{"data": {"id": "3", "label": "value", "expanded": false}, "position": {"x": 400, "y": 0}}
//
// Edge records:
//
//	{"data": {"source": "1", "target": "3", "label": "root - name"}}
//
// Common operations:
//
//	data, _ := graph.MarshalElements(e)         // Elements → []byte
//	e, _ := graph.UnmarshalElements(data)       // []byte → Elements
//	graph.WriteElementsFile(e, "out.json")      // Elements → File
//	e, _ := graph.ReadElementsFile("out.json")  // File → Elements
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
