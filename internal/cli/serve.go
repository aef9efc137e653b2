package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/internal/server"
	"github.com/matzehuels/shapereach/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve analysis and derivation over HTTP",
		Long: `Serve starts the HTTP API:

  GET /healthz
  GET /v1/shapes/{code}
  GET /v1/shapes/{code}/derivation
  GET /v1/shapes/{code}/derivation.svg
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.conf().Server.Addr
			}

			svc, closeFn, err := c.newService(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeFn()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			observability.SetEnumerationHooks(hooks)

			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return server.New(server.Config{
				Addr:     addr,
				Service:  svc,
				Gatherer: reg,
				Logger:   loggerFromContext(ctx),
			}).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
