// Package reviewservice boots the review aggregation HTTP service.
package reviewservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rumblereviews/rumble/internal/api"
	"github.com/rumblereviews/rumble/internal/catalog"
	"github.com/rumblereviews/rumble/internal/config"
	"github.com/rumblereviews/rumble/internal/health"
	"github.com/rumblereviews/rumble/internal/logger"
	"github.com/rumblereviews/rumble/internal/services"
	"github.com/rumblereviews/rumble/internal/store"
	"github.com/rumblereviews/rumble/internal/store/postgres"
	"github.com/rumblereviews/rumble/internal/store/sqlite"
	"github.com/rumblereviews/rumble/internal/suggest"
)

// Run starts the review service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("review-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("catalog_base_url", cfg.CatalogBaseURL).
		Msg("Review service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	cat := catalog.New(cfg.CatalogBaseURL, cfg.CatalogAPIKey, time.Duration(cfg.CatalogTimeoutSeconds)*time.Second)
	engine := suggest.New(cat)
	reviewSvc := services.NewReviewService(st, cat)

	router := buildRouter(reviewSvc, engine, cat, cfg)

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st, cat)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// newStore opens the configured database and ensures the schema exists.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error().Stack().Err(err).Msg("postgres open failed")
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error().Stack().Err(err).Msg("postgres schema init failed")
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Error().Stack().Err(err).Msg("sqlite open failed")
			return nil, err
		}
		if err := sqlite.EnsureSchema(ctx, db); err != nil {
			log.Error().Stack().Err(err).Msg("sqlite schema init failed")
			return nil, err
		}
		return sqlite.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(reviewSvc *services.ReviewService, engine *suggest.Engine, resolver services.Resolver, cfg *config.Config) *mux.Router {
	return api.NewRouter(reviewSvc, engine, resolver, cfg.SuggestLimit)
}

// startHealthCheckers starts component checkers and service-level aggregator; binds health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, cat *catalog.Client) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	catChecker := catalog.NewCatalogHealthChecker(cat, log, probeTimeout)
	go catChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, catChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Checkers start unhealthy and need one probe cycle before they can
	// report anything useful.
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
