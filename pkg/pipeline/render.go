package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/observability"
	"github.com/matzehuels/jsongraph/pkg/render/nodelink"
)

// RenderElements writes e in every format of opts.Formats.
func RenderElements(ctx context.Context, e graph.Elements, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderOne(ctx, e, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, e graph.Elements, format string, opts Options) (data []byte, err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnRender(ctx, observability.RenderEvent{
			Format:   format,
			Bytes:    len(data),
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	switch format {
	case FormatJSON:
		return graph.MarshalElements(e)
	case FormatDOT, FormatSVG:
		return nodelink.Render(ctx, e, format, opts.NodelinkOptions())
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
