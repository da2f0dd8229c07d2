// Package nodelink renders laid-out records as node-link diagrams.
//
// Records already carry positions, so no layout happens here: [ToDOT]
// writes every node with a pinned pos attribute and [RenderSVG] asks
// Graphviz's neato engine to draw them where they are.
//
//	dot := nodelink.ToDOT(elements, nodelink.Options{EdgeLabels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Record coordinates are treated as points (1/72 inch). Use
// [Options.Scale] to spread or compress a diagram.
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz
// compiled to WebAssembly, so no system Graphviz install is needed.
package nodelink
