package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stridehq/stride/internal/api"
	"github.com/stridehq/stride/internal/app/activity"
	"github.com/stridehq/stride/internal/app/freedom"
	"github.com/stridehq/stride/internal/app/planner"
	"github.com/stridehq/stride/internal/app/streak"
	"github.com/stridehq/stride/internal/cache"
	"github.com/stridehq/stride/internal/health"
	_ "github.com/stridehq/stride/internal/infra/metrics" // Register Prometheus metrics
	"github.com/stridehq/stride/internal/store"
)

// Daemon is the core Stride runtime. It wires together the document store,
// the local cache mirror, and the engine services.
type Daemon struct {
	Config Config
	Store  store.DocStore
	Cache  *cache.Mirror
	Server *api.Server
	Health *health.Checker

	Streak   *streak.Service
	Freedom  *freedom.Service
	Activity *activity.Service
	Planner  *planner.Service

	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	docs, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	mirror, err := cache.Open(strideHome())
	if err != nil {
		docs.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	d := &Daemon{
		Config: cfg,
		Store:  docs,
		Cache:  mirror,
	}

	d.Streak = streak.NewService(docs)
	d.Freedom = freedom.NewService(docs, mirror)
	d.Activity = activity.NewService(docs)
	d.Planner = planner.NewService(docs, d.Activity, d.Streak)

	d.Health = health.NewChecker(docs, mirror, strideHome())

	d.Server = api.NewServer(d.Streak, d.Freedom, d.Activity, d.Planner)
	d.Server.SetHealth(d.Health)
	if cfg.API.Metrics {
		d.Server.EnableMetrics()
	}

	return d, nil
}

// openStore builds the configured DocStore backend, wrapped with the
// per-operation timeout.
func openStore(cfg StoreConfig) (store.DocStore, error) {
	switch cfg.Backend {
	case "", "sqlite":
		s, err := store.OpenSQLite(strideHome())
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}
		return store.WithTimeout(s, cfg.Timeout()), nil

	case "surreal":
		s := store.NewSurreal(store.SurrealConfig{
			Host:      cfg.Host,
			Port:      cfg.Port,
			User:      cfg.User,
			Password:  cfg.Password,
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()
		if err := s.Connect(ctx); err != nil {
			// The engines fall back to the local cache while the remote is
			// down, so a failed connect is not fatal at startup.
			log.Printf("[daemon] remote store unreachable at startup: %v", err)
		}
		return store.WithTimeout(s, cfg.Timeout()), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Serve runs the HTTP server until the context is cancelled or a shutdown
// signal arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		d.Close()
	}()

	fmt.Printf("Stride serving on http://%s\n", addr)
	if d.Config.API.Metrics {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Store != nil {
		_ = d.Store.Close()
	}
	if d.Cache != nil {
		_ = d.Cache.Close()
	}
}
