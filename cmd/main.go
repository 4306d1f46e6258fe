// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/event-registry/internal/config"
	"github.com/Shivanand-hulikatti/event-registry/internal/database"
	"github.com/Shivanand-hulikatti/event-registry/internal/handler"
	"github.com/Shivanand-hulikatti/event-registry/internal/journal"
	"github.com/Shivanand-hulikatti/event-registry/internal/repository"
	"github.com/Shivanand-hulikatti/event-registry/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	port      int
	logLevel  string
	logFormat string
	webDir    string
)

var rootCmd = &cobra.Command{
	Use:           "event-registry",
	Short:         "In-memory event registration service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)
		return serve(cmd.Context(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&webDir, "web-dir", "", "static file directory (overrides WEB_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json, console")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("web-dir") {
		cfg.WebDir = webDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := config.NewLogger(cfg.Logging)

	// ── 1. Optional journal ──────────────────────────────────────────────
	var rec journal.Recorder = journal.Nop{}
	if cfg.JournalEnabled() {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.DefaultOptions, logger)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()

		pg := journal.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		rec = pg
		logger.Info().Msg("journal enabled")
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	registry := repository.NewEventManager()
	eventSvc := service.NewEventService(registry, rec, logger)
	eventHandler := handler.NewEventHandler(eventSvc, logger)
	router := handler.NewRouter(eventHandler, logger, handler.RouterOptions{
		WebDir:         cfg.WebDir,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	// ── 3. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	return shutdown(srv, cfg.ShutdownTimeout, logger)
}

func shutdown(srv *http.Server, timeout time.Duration, logger zerolog.Logger) error {
	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
