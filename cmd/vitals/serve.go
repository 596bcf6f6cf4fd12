// ABOUTME: CLI command starting the vitals HTTP API server.
// ABOUTME: Runs the reminder scheduler alongside with graceful shutdown.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/harperreed/vitals/internal/api"
	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/reminder"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the vitals HTTP API server.

The server exposes the same data as the CLI over a JSON API with
bearer-token sessions, plus a background reminder scheduler that logs
when a user's latest measurement goes stale.

CONFIGURATION (environment):

  VITALS_ADDR              listen address (default :8080)
  VITALS_LOG_LEVEL         debug, info, warn, error (default info)
  VITALS_TOKEN_TTL         session lifetime (default 720h)
  VITALS_REMINDER_TICK     reminder check interval (default 1m)
  VITALS_SHUTDOWN_TIMEOUT  graceful shutdown window (default 10s)

ENDPOINTS:

  POST /api/v1/users              Register
  POST /api/v1/users/login        Login, returns a bearer token
  GET  /api/v1/{bp,weight,heartbeat}         List readings
  POST /api/v1/{bp,weight,heartbeat}         Record a reading
  GET  /api/v1/{bp,weight,heartbeat}/latest  Latest reading
  GET  /api/v1/reminders/due      Reminders due now

EXAMPLE:

  VITALS_ADDR=:9000 vitals serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServer()
		if err != nil {
			return err
		}

		logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
			Prefix:          "vitals",
		})
		if lvl, err := charmlog.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}

		server := api.NewServer(repo, logger, cfg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sched := reminder.NewScheduler(repo, logger, cfg.ReminderTick)
		go func() {
			_ = sched.Run(ctx)
		}()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info("received signal", "signal", sig)
		}

		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
