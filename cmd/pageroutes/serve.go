package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroutes/internal/server"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port    int
		host    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the route development server",
		Long: `Start a server that watches the pages directory and serves the
current route table.

Endpoints:
  GET /routes              current table
  GET /routes/match?path=  match preview
  GET /healthz             status
  GET /metrics             Prometheus metrics
  GET /ws                  route updates over WebSocket

Examples:
  pageroutes serve
  pageroutes serve --port=9000
  pageroutes serve --host=0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(flags)
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			out := cmd.OutOrStdout()
			srv := server.New(server.Options{
				Config: cfg,
				Logger: logger,
				OnResolve: func(result *routes.Result, err error) {
					if err != nil {
						errorMsg(out, "%v", err)
						return
					}
					success(out, "%d routes (%s)", routes.Count(result.Routes), result.Source)
				},
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			info(out, "Serving routes at %s", cfg.DevURL())
			info(out, "Watching %s", cfg.PagesPath())
			if err := srv.Run(ctx, nil); err != nil {
				return err
			}
			info(out, "Shut down")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from pageroutes.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pageroutes.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every file change and request")

	return cmd
}
