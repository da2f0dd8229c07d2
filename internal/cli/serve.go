package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/internal/metrics"
	"github.com/matzehuels/jsongraph/internal/server"
	"github.com/matzehuels/jsongraph/pkg/observability"
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph pipeline over HTTP",
		Long: `Serve the graph pipeline over HTTP.

  POST /v1/graph   lay out the request body; query: depth, input, output,
                   edge_labels, refresh
  GET  /healthz    liveness and build information
  GET  /metrics    Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  jsongraph serve --addr :9090
  curl -s --data-binary @config.json 'localhost:8080/v1/graph?depth=2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := server.Options{
				MaxBodyBytes: c.Config.Server.MaxBodyBytes,
				Output:       c.Config.Render.Format,
				ReadTimeout:  c.Config.Server.ReadTimeout.Duration,
				WriteTimeout: c.Config.Server.WriteTimeout.Duration,
			}
			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				metrics.New(reg).Register()
				defer observability.Reset()
				opts.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
			}

			c.Logger.Info("starting server", "addr", addr, "cache", c.Config.Cache.Backend, "metrics", !noMetrics)
			return server.New(runner, c.Logger, opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}
