// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	POST /v1/graph   body: a JSON (or YAML) document
//	                 query: depth=N (default unlimited), input=json|yaml,
//	                        output=json|dot|svg, edge_labels=true, scale=F,
//	                        refresh=true
//	GET  /healthz    liveness and build information
//	GET  /metrics    Prometheus metrics, when a registry is configured
//
// The JSON output is the flat records array a cytoscape-style front end
// loads directly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
)

// Options configures a Server.
type Options struct {
	// MaxBodyBytes bounds request documents. Zero means 8 MiB.
	MaxBodyBytes int64

	// Output is the default output format. Empty means "json".
	Output string

	// Metrics serves /metrics when non-nil.
	Metrics http.Handler

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server routes HTTP requests to a [Builder].
type Server struct {
	builder Builder
	logger  *log.Logger
	opts    Options
	router  chi.Router
}

// New creates a server. A nil logger uses log.Default().
func New(b Builder, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}
	if opts.Output == "" {
		opts.Output = "json"
	}

	s := &Server{builder: b, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/graph", s.graph)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, string(jgerrors.ErrCodeNotFound), "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, string(jgerrors.ErrCodeMethodNotAllowed), r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to 10 seconds for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
