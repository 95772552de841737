// Package app wires configuration, logging, persistence, services, and the
// HTTP transport into a runnable server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"ocpulse/internal/config"
	apierrors "ocpulse/internal/errors"
	"ocpulse/internal/infrastructure"
	custommw "ocpulse/internal/middleware"
	"ocpulse/internal/services"
	"ocpulse/internal/store"
	transport "ocpulse/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application holds all initialized components.
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	store   store.RecordStore
	server  *http.Server
}

// New initializes the application: config, logger, record store, services,
// and the HTTP server. The context bounds store connection setup.
func New(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	recordStore, err := selectStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{
		config:  cfg,
		logger:  logger,
		metrics: infrastructure.NewMetrics(),
		store:   recordStore,
	}
	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func selectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.RecordStore, error) {
	if cfg.Database.DSN == "" {
		logger.Warn("no database DSN configured; using in-memory store, results will not survive restarts")
		return store.NewMemoryStore(), nil
	}
	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN, cfg.Database.ConnectTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to record store: %w", err)
	}
	return pg, nil
}

func (a *Application) routes() http.Handler {
	errorHandler := apierrors.NewErrorHandler(a.logger)
	classification := services.NewClassificationService(a.store, a.logger, a.metrics)
	reconciliation := services.NewReconciliationService(a.store, a.logger, a.metrics)
	health := services.NewHealthService(a.store, Version)

	classifyHandler := transport.NewClassifyHandler(classification, a.logger, errorHandler)
	reconcileHandler := transport.NewReconcileHandler(reconciliation, a.logger, errorHandler)
	sessionHandler := transport.NewSessionHandler(classification, reconciliation, a.logger, errorHandler)
	healthHandler := transport.NewHealthHandler(health)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(a.logger))
	r.Use(custommw.Recoverer(a.logger))
	r.Use(custommw.SecurityHeaders)
	if a.config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(a.config.Security.RateLimit.RPS, a.config.Security.RateLimit.Burst, a.logger)
		r.Use(limiter.Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Batch uploads are bounded in both size and latency.
			r.Use(maxBytes(a.config.Server.MaxUploadBytes))
			r.Use(timeout(a.config.Server.BatchTimeout))
			r.Mount("/classify", classifyHandler.Routes())
			r.Mount("/reconcile", reconcileHandler.Routes())
		})
		r.Mount("/sessions", sessionHandler.Routes())
		r.Get("/health", healthHandler.Health)
	})
	r.Method(http.MethodGet, "/metrics", transport.MetricsHandler(a.metrics))

	return r
}

func maxBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", slog.String("addr", a.server.Addr), slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	a.store.Close()
	a.logger.Info("shutdown complete")
	return nil
}
