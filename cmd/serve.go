package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpapi "task-manager.com/task-manager/internal/http"
	"task-manager.com/task-manager/internal/services"
)

var serveDispatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task manager HTTP API and, unless disabled, the notification dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		var dispatcher *services.DispatchService
		if a.notifications != nil && serveDispatch {
			dispatcher = a.newDispatcher()
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		handler := httpapi.NewHandler(a.identity, a.tasks, a.comments)
		httpapi.Register(e, handler, a.identity, cfg.RateLimit, logger)

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped", "error", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		if dispatcher != nil {
			dispatcher.Shutdown(shutdownCtx)
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDispatch, "dispatch", true, "run notification dispatch workers in this process")
	rootCmd.AddCommand(serveCmd)
}
