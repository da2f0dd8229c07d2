// Package observability carries pipeline, cache and HTTP events to whatever
// metrics backend a binary installs.
//
// Library code reports through [Pipeline], [Cache] and [HTTP]; until a
// binary calls [Register] every event goes to [Noop]. The serve command
// installs Prometheus collectors:
//
//	m := metrics.New(reg)
//	observability.Register(observability.Hooks{Pipeline: m, Cache: m, HTTP: m})
//	defer observability.Reset()
//
// Events are plain structs so new fields do not break implementations:
//
//	observability.Pipeline().OnBuild(ctx, observability.BuildEvent{
//	    Format: "json", Nodes: n, Duration: time.Since(start),
//	})
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// BuildEvent describes decoding a document into a node tree.
type BuildEvent struct {
	Format   string
	Nodes    int
	Duration time.Duration
	Err      error
}

// LayoutEvent describes producing records from a tree.
type LayoutEvent struct {
	// Depth is the expansion budget; -1 is unlimited.
	Depth    int
	Nodes    int
	Edges    int
	Duration time.Duration
}

// RenderEvent describes writing records in one output format.
type RenderEvent struct {
	Format   string
	Bytes    int
	Duration time.Duration
	Err      error
}

// PipelineHooks receives build, layout and render events.
type PipelineHooks interface {
	OnBuild(ctx context.Context, ev BuildEvent)
	OnLayout(ctx context.Context, ev LayoutEvent)
	OnRender(ctx context.Context, ev RenderEvent)
}

// CacheHooks receives cache lookups and writes, keyed by entry type
// ("elements" or "artifact").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives server requests. OnResponse gets the routed pattern,
// not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Noop discards every event.
type Noop struct{}

func (Noop) OnBuild(context.Context, BuildEvent)                              {}
func (Noop) OnLayout(context.Context, LayoutEvent)                            {}
func (Noop) OnRender(context.Context, RenderEvent)                            {}
func (Noop) OnCacheHit(context.Context, string)                               {}
func (Noop) OnCacheMiss(context.Context, string)                              {}
func (Noop) OnCacheSet(context.Context, string, int)                          {}
func (Noop) OnRequest(context.Context, string, string)                        {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration) {}

// Hooks is the set of installed receivers.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var defaults = Hooks{Pipeline: Noop{}, Cache: Noop{}, HTTP: Noop{}}

var (
	current atomic.Pointer[Hooks]
	writeMu sync.Mutex
)

func init() {
	Reset()
}

// Register installs the non-nil members of h. Members left nil keep their
// current receiver.
func Register(h Hooks) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	if h.Pipeline != nil {
		next.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
}

// Reset restores the no-op receivers.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	h := defaults
	current.Store(&h)
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }
