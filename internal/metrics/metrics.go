// Package metrics implements the observability hooks with Prometheus
// collectors. The serve command registers one [Metrics] at startup and
// exposes it on /metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/jsongraph/pkg/observability"
)

const namespace = "jsongraph"

// Metrics holds every collector. It satisfies the pipeline, cache and HTTP
// hook interfaces.
type Metrics struct {
	Builds        *prometheus.CounterVec
	BuildDuration *prometheus.HistogramVec
	TreeNodes     prometheus.Histogram

	Layouts        prometheus.Counter
	LayoutDuration prometheus.Histogram
	LayoutRecords  prometheus.Histogram

	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Documents decoded into trees, labelled by format and status.",
		}, []string{"format", "status"}),
		BuildDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time to decode a document and build its tree.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		TreeNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Number of nodes in built trees.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),

		Layouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Trees laid out into records.",
		}),
		LayoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to lay out a tree.",
			Buckets:   prometheus.DefBuckets,
		}),
		LayoutRecords: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_records",
			Help:      "Node plus edge records per layout.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),

		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered outputs, labelled by format and status.",
		}, []string{"format", "status"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to render an output.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),

		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by key type.",
		}, []string{"key_type"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by key type.",
		}, []string{"key_type"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),

		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
}

// Register installs m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.Register(observability.Hooks{Pipeline: m, Cache: m, HTTP: m})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnBuild implements observability.PipelineHooks.
func (m *Metrics) OnBuild(_ context.Context, ev observability.BuildEvent) {
	m.Builds.WithLabelValues(ev.Format, status(ev.Err)).Inc()
	if ev.Err != nil {
		return
	}
	m.BuildDuration.WithLabelValues(ev.Format).Observe(ev.Duration.Seconds())
	m.TreeNodes.Observe(float64(ev.Nodes))
}

// OnLayout implements observability.PipelineHooks.
func (m *Metrics) OnLayout(_ context.Context, ev observability.LayoutEvent) {
	m.Layouts.Inc()
	m.LayoutDuration.Observe(ev.Duration.Seconds())
	m.LayoutRecords.Observe(float64(ev.Nodes + ev.Edges))
}

// OnRender implements observability.PipelineHooks.
func (m *Metrics) OnRender(_ context.Context, ev observability.RenderEvent) {
	m.Renders.WithLabelValues(ev.Format, status(ev.Err)).Inc()
	m.RenderDuration.WithLabelValues(ev.Format).Observe(ev.Duration.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheHits.WithLabelValues(keyType).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheMisses.WithLabelValues(keyType).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.InFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.InFlight.Dec()
	m.Requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
