// Package pkg provides the libraries behind jsongraph.
//
// # Overview
//
// jsongraph turns an arbitrary JSON (or YAML) document into a positioned
// graph: every value becomes a node, every containment becomes an edge, and
// nodes are placed on a simple tree grid so a renderer can draw the result
// without running its own layout. The pkg directory is organized as:
//
//  1. [value] - Order-preserving document model and decoders
//  2. [tree] - Node tree, ID generation and the layout walk
//  3. [jsongraph] - Maps a document onto a node tree
//  4. [graph] - Node and edge records and their serialization
//  5. [render] - Drawing records as DOT and SVG
//  6. [pipeline] - Orchestration (read → build → render) with caching
//  7. [cache], [httputil], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML document (file, URL or bytes)
//	         ↓
//	    [value] package (decode, keep member order)
//	         ↓
//	    [jsongraph] package (build the node tree)
//	         ↓
//	    [tree] package (lay out, honour the depth cutoff)
//	         ↓
//	    [graph] package (flat node-then-edge records)
//	         ↓
//	    JSON records / DOT / SVG
//
// # Quick Start
//
// Build the records for a document:
//
//	b, err := jsongraph.FromSource("config.json")
//	if err != nil {
//	    return err
//	}
//	elements := b.Get(tree.Unlimited)
//	return graph.WriteElements(elements, os.Stdout)
//
// Collapse everything below the second level:
//
//	elements := b.Get(2)
//
// Use the pipeline for cached builds and rendered output:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "config.json",
//	    Formats: []string{"svg"},
//	})
//
// # Package Organization
//
// Document model:
//   - [value]: Object, Array and scalar types; DecodeJSON, DecodeYAML, FromAny
//
// Core:
//   - [tree]: Node, Kind, IDGenerator, Depth and the record layout
//   - [jsongraph]: Builder with FromSource, FromReader, FromBytes
//   - [graph]: Elements, Node and Edge records, Stats
//
// Output:
//   - [render/nodelink]: DOT generation and Graphviz SVG rendering
//
// Infrastructure:
//   - [pipeline]: Runner tying input, build, render and cache together
//   - [cache]: File, Redis and null caches keyed by content hash
//   - [httputil]: Fetching documents from http(s) URLs with retries
//   - [observability]: Hook interfaces for metrics
//   - [errors]: Error codes shared by the CLI and the HTTP server
//
// [value]: github.com/matzehuels/jsongraph/pkg/value
// [tree]: github.com/matzehuels/jsongraph/pkg/tree
// [jsongraph]: github.com/matzehuels/jsongraph/pkg/jsongraph
// [graph]: github.com/matzehuels/jsongraph/pkg/graph
// [render]: github.com/matzehuels/jsongraph/pkg/render
// [render/nodelink]: github.com/matzehuels/jsongraph/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/jsongraph/pkg/pipeline
// [cache]: github.com/matzehuels/jsongraph/pkg/cache
// [httputil]: github.com/matzehuels/jsongraph/pkg/httputil
// [observability]: github.com/matzehuels/jsongraph/pkg/observability
// [errors]: github.com/matzehuels/jsongraph/pkg/errors
// [buildinfo]: github.com/matzehuels/jsongraph/pkg/buildinfo
package pkg
