package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/httputil"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/observability"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

// ReadInput returns opts.Data, or the contents of opts.Source, which is a
// file path or an http(s) URL. Inputs larger than [MaxInputBytes] are
// rejected.
func ReadInput(ctx context.Context, opts Options) ([]byte, error) {
	if opts.Data != nil {
		if len(opts.Data) > MaxInputBytes {
			return nil, errors.New(errors.ErrCodeInvalidInput, "input exceeds %d bytes", MaxInputBytes)
		}
		return opts.Data, nil
	}

	if httputil.IsURL(opts.Source) {
		return httputil.Fetch(ctx, opts.HTTPClient, opts.Source, MaxInputBytes)
	}

	f, err := os.Open(opts.Source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", opts.Source)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxInputBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", opts.Source)
	}
	if len(data) > MaxInputBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", opts.Source, MaxInputBytes)
	}
	return data, nil
}

// BuildElements decodes data, builds its tree and lays it out at
// opts.Depth. Each call numbers nodes from 1, so equal inputs always give
// equal records and cached results match fresh ones.
func BuildElements(ctx context.Context, data []byte, opts Options) (graph.Elements, error) {
	hooks := observability.Pipeline()

	start := time.Now()
	b, err := jsongraph.FromBytes(data, opts.Format,
		jsongraph.WithIDs(tree.NewSequence()),
		jsongraph.WithLogger(opts.Logger))
	ev := observability.BuildEvent{Format: string(opts.Format), Duration: time.Since(start), Err: err}
	if b != nil {
		ev.Nodes = b.NodeCount()
	}
	hooks.OnBuild(ctx, ev)
	if err != nil {
		return graph.Elements{}, err
	}

	start = time.Now()
	e := b.Get(opts.Depth)
	hooks.OnLayout(ctx, observability.LayoutEvent{
		Depth:    int(opts.Depth),
		Nodes:    len(e.Nodes),
		Edges:    len(e.Edges),
		Duration: time.Since(start),
	})
	return e, nil
}
