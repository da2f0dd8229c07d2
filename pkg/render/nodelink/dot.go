package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsongraph/pkg/graph"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Formats lists every supported output format.
var Formats = []string{FormatDOT, FormatSVG}

// pointsPerInch converts record coordinates (points) into the inches
// Graphviz expects for pinned positions.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// EdgeLabels draws each edge's "parent - child" label.
	EdgeLabels bool

	// Scale multiplies every record coordinate. Zero means 1.
	Scale float64
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// ToDOT converts records to Graphviz DOT. Every node is pinned at its
// record position, X to the right and Y downwards, so neato draws the
// layout unchanged.
//
// Expanded containers are drawn bold and filled; collapsed containers and
// leaves are plain boxes.
func ToDOT(e graph.Elements, opts Options) string {
	s := opts.scale()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10, height=0.2, margin=\"0.05,0.02\"];\n")
	buf.WriteString("  edge [arrowsize=0.5, fontsize=8];\n")
	buf.WriteString("\n")

	for _, n := range e.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", displayLabel(n.Data.Label)),
			fmt.Sprintf("pos=\"%s,%s!\"", coord(n.Position.X*s), coord(-n.Position.Y*s)),
		}
		if n.Data.Expanded {
			attrs = append(attrs, "fillcolor=lightgrey", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Data.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, ed := range e.Edges {
		if opts.EdgeLabels {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", ed.Data.Source, ed.Data.Target, ed.Data.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", ed.Data.Source, ed.Data.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// displayLabel keeps the root and empty strings visible.
func displayLabel(label string) string {
	if label == "" {
		return `""`
	}
	return label
}

func coord(points float64) string {
	if points == 0 {
		return "0" // never "-0"
	}
	return strconv.FormatFloat(points/pointsPerInch, 'f', -1, 64)
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces the records in the given format.
func Render(ctx context.Context, e graph.Elements, format string, opts Options) ([]byte, error) {
	dot := ToDOT(e, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container instead of using Graphviz's pt sizes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
