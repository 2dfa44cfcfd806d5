// Command policy-service serves the policy and report-upload HTTP API
// described in §6: current/history policy lookups, policy upsert, and
// report ingestion.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sentrypass/sentrypass/internal/clock"
	"github.com/sentrypass/sentrypass/internal/config"
	"github.com/sentrypass/sentrypass/internal/observability"
	"github.com/sentrypass/sentrypass/internal/server"
	"github.com/sentrypass/sentrypass/internal/storage"
	policymigrations "github.com/sentrypass/sentrypass/migrations/policy"
)

var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("policy-service starting", "version", version, "port", cfg.PolicyPort)

	otelShutdown, err := observability.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := storage.New(ctx, cfg.PolicyDBPath, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.RunMigrations(ctx, policymigrations.FS); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	handlers := &server.PolicyHandlers{
		Store:               storage.NewPolicyStore(db),
		ReportStore:         storage.NewReportStore(db),
		Clock:               clock.System{},
		Logger:              logger,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	}
	srv := server.NewPolicyServer(handlers, cfg.APIToken, cfg.PolicyPort, cfg.ReadTimeout, cfg.WriteTimeout)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info("policy-service shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownHTTPTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	logger.Info("policy-service stopped")
	return nil
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
