package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/graph"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-type cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs build → layout → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	data, err := ReadInput(ctx, opts)
	if err != nil {
		return nil, err
	}
	opts.Data = data

	result := &Result{InputHash: cache.Hash(data)}

	buildStart := time.Now()
	elements, hit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Elements = elements
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(elements.Nodes)
	result.Stats.EdgeCount = len(elements.Edges)
	result.CacheInfo.ElementsHit = hit

	r.Logger.Info("built graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, elements, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo returns the records for opts and whether they came
// from the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (graph.Elements, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return graph.Elements{}, false, err
	}

	data, err := ReadInput(ctx, opts)
	if err != nil {
		return graph.Elements{}, false, err
	}
	cacheKey := r.Keyer.ElementsKey(cache.Hash(data), opts.ElementsKeyOpts())

	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if e, err := graph.UnmarshalElements(raw); err == nil {
				return e, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
	}

	e, err := BuildElements(ctx, data, opts)
	if err != nil {
		return graph.Elements{}, false, err
	}

	if raw, err := graph.MarshalElements(e); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, raw, r.ttl(cache.TTLElements)); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}
	return e, false, nil
}

// Build is a convenience wrapper that discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (graph.Elements, error) {
	e, _, err := r.BuildWithCacheInfo(ctx, opts)
	return e, err
}

// RenderWithCacheInfo renders e in every requested format. The bool
// reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, e graph.Elements, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	raw, err := graph.MarshalElements(e)
	if err != nil {
		return nil, false, fmt.Errorf("serialize elements for cache key: %w", err)
	}
	elementsHash := cache.Hash(raw)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(elementsHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderElements(ctx, e, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(elementsHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, e graph.Elements, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, e, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}
