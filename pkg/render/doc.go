// Package render groups the renderers for graph records.
//
// # Overview
//
// A [graph.Elements] value already carries every position a drawing needs,
// so renderers only translate records into an output format. The
// [nodelink] subpackage draws them as a node-link diagram:
//
//	dot := nodelink.ToDOT(elements, nodelink.Options{EdgeLabels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Supported formats are "json" (the records themselves, handled by
// [graph]), "dot" and "svg".
//
// [graph.Elements]: github.com/matzehuels/jsongraph/pkg/graph.Elements
// [graph]: github.com/matzehuels/jsongraph/pkg/graph
// [nodelink]: github.com/matzehuels/jsongraph/pkg/render/nodelink
package render
