package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/trendscope/internal/web"
	"github.com/spf13/cobra"
)

// serveCmd runs the web dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP.",
	Long: `Start the web dashboard.

The dataset is loaded once at startup and cached for the life of the process.
If loading fails the server still starts: the dashboard shows the error,
data routes answer 503 and /healthz reports the problem.

Routes:
  /                    dashboard page (years and q query parameters)
  /export.csv          CSV download of the selected rows
  /charts/{name}.png   rendered charts
  /api/...             summary, charts, breakdown/{bucket} and rows as JSON
  /healthz, /metrics   health and Prometheus metrics

Examples:
  trendscope serve
  trendscope serve --addr :9000 --data-dirs ./data --log-level debug`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})).
			With(slog.String("component", "web"))

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := web.New(ctx, cfg, session, storeManager, logger)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx)
	},
}
