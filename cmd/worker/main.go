package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rezkam/listor/internal/config"
	"github.com/rezkam/listor/internal/infrastructure/observability"
	"github.com/rezkam/listor/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/listor/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lp, logger, err := observability.InitLogger(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: workerServiceName(cfg.Observability.ServiceName),
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown logger provider", "error", err)
		}
	}()
	slog.SetDefault(logger)

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	var opts []worker.Option
	if cfg.ScanInterval > 0 {
		opts = append(opts, worker.WithScanInterval(cfg.ScanInterval))
	}
	if cfg.OperationTimeout > 0 {
		opts = append(opts, worker.WithOperationTimeout(cfg.OperationTimeout))
	}

	w := worker.New(store, opts...)

	slog.InfoContext(ctx, "starting recurring task worker", "scan_interval", cfg.ScanInterval)

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker failed: %w", err)
	}

	slog.Info("worker stopped")
	return nil
}

func workerServiceName(configured string) string {
	if configured != "" {
		return configured
	}
	return observability.DefaultServiceName + "-worker"
}
