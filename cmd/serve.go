package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/retention/internal/api"
	"github.com/huangsam/retention/internal/scheduler"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API and the optional roster watcher.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the retention HTTP API",
	Long: `Serve the dashboard, employee, intervention and upload endpoints over HTTP.

Routes:
  GET   /health
  GET   /api/dashboard
  GET   /api/employees
  GET   /api/employees/:id
  POST  /api/employees/:id/predict
  GET   /api/analytics/trends
  GET   /api/interventions
  PATCH /api/interventions/:employee_id/:seq
  POST  /api/upload/employees
  GET   /api/upload/template

With --watch-file set, the file is re-imported on --watch-schedule
whenever its modification time changes.

Examples:
  # Serve on the default address
  retention serve

  # Serve from PostgreSQL and re-import a shared roster every night
  retention serve --store-backend postgresql --store-db-connect "$DSN" \
    --watch-file /data/roster.xlsx --watch-schedule "0 2 * * *"`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.WatchFile != "" {
			s, err := scheduler.New(cfg, storeManager)
			if err != nil {
				return err
			}
			s.Sync(ctx)
			if err := s.Start(ctx); err != nil {
				return err
			}
		}
		return api.Serve(ctx, cfg, storeManager)
	},
}
