package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/listor/internal/application/auth"
	"github.com/rezkam/listor/internal/application/sharing"
	"github.com/rezkam/listor/internal/application/task"
	"github.com/rezkam/listor/internal/config"
	"github.com/rezkam/listor/internal/infrastructure/email"
	httpserver "github.com/rezkam/listor/internal/infrastructure/http"
	"github.com/rezkam/listor/internal/infrastructure/http/handler"
	"github.com/rezkam/listor/internal/infrastructure/http/middleware"
	"github.com/rezkam/listor/internal/infrastructure/observability"
	"github.com/rezkam/listor/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/listor/internal/storage"
	fsstorage "github.com/rezkam/listor/internal/storage/fs"
	"github.com/rezkam/listor/internal/storage/gcs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	obsCfg := observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: serviceName(cfg.Observability.ServiceName),
	}

	lp, logger, err := observability.InitLogger(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer shutdownProvider(lp.Shutdown, "logger provider")
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer shutdownProvider(tp.Shutdown, "tracer provider")

	mp, err := observability.InitMeterProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer shutdownProvider(mp.Shutdown, "meter provider")

	slog.InfoContext(ctx, "starting listor server")

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

	slog.InfoContext(ctx, "storage initialized", "dsn", maskPassword(cfg.Database.DSN))

	avatars, err := newAvatarStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create avatar store: %w", err)
	}

	mailer, err := newMailer(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	taskService := task.NewService(store.Tasks())
	sharingService := sharing.NewService(store.Sharing(), mailer, sharing.Config{
		InvitationBaseURL: cfg.Sharing.InvitationBaseURL,
	})
	authenticator := auth.NewAuthenticator(ctx, store, auth.Config{
		TokenSecret:      cfg.Auth.TokenSecret,
		TokenTTL:         cfg.Auth.TokenTTL,
		OperationTimeout: cfg.Auth.OperationTimeout,
		UpdateQueueSize:  cfg.Auth.UpdateQueueSize,
	})

	h := handler.New(taskService, sharingService, authenticator, avatars)
	authMiddleware := middleware.NewAuth(authenticator)
	apiHandler := otelhttp.NewHandler(h.Routes(authMiddleware.Validate), "listor-api")

	server := httpserver.NewAPIServer(apiHandler, httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Fresh context for shutdown since the main one is already cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
	}
	if err := authenticator.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to shutdown authenticator", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// newAvatarStore selects the avatar blob store backend.
func newAvatarStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Type {
	case "gcs":
		return gcs.NewStore(ctx, cfg.GCSBucket)
	default:
		return fsstorage.NewStore(cfg.FSDir, cfg.FSBaseURL)
	}
}

// newMailer selects the invitation email transport.
func newMailer(cfg config.EmailConfig) (sharing.EmailSender, error) {
	if !cfg.Enabled {
		return email.LogSender{}, nil
	}
	return email.NewSMTPSender(email.SMTPConfig{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	})
}

func serviceName(configured string) string {
	if configured != "" {
		return configured
	}
	return observability.DefaultServiceName
}

// shutdownProvider shuts down an observability provider with a timeout so a
// missing collector cannot hang process exit.
func shutdownProvider(shutdown func(context.Context) error, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown "+name, "error", err)
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		// If parsing fails, fall back to full redaction to be safe
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
