package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued notifications",
	Long:  "Runs the notification dispatch workers against the Redis queue without serving HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.NotifyDriver != config.NotifyDriverRedis {
			return fmt.Errorf("worker needs NOTIFY_DRIVER=%s, got %q", config.NotifyDriverRedis, cfg.NotifyDriver)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		dispatcher := a.newDispatcher()
		logger.Info("notification worker started", "workers", cfg.NotifyWorkers, "queue", cfg.NotifyQueueKey)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()
		dispatcher.Shutdown(shutdownCtx)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
