package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulse-lab/pulse/internal/board"
	"github.com/pulse-lab/pulse/internal/config"
	"github.com/pulse-lab/pulse/internal/core/metrics"
	"github.com/pulse-lab/pulse/internal/core/storage"
	"github.com/pulse-lab/pulse/internal/core/storage/memory"
	"github.com/pulse-lab/pulse/internal/core/storage/postgres"
	"github.com/pulse-lab/pulse/internal/core/storage/sqlite"
	"github.com/pulse-lab/pulse/internal/dashboard"
	"github.com/pulse-lab/pulse/internal/ingestion"
	"github.com/pulse-lab/pulse/internal/migrations"
	"github.com/pulse-lab/pulse/internal/server"
	"github.com/pulse-lab/pulse/internal/telemetry"
	"github.com/spf13/cobra"
)

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API: event ingestion, the quota-gated board actions and
the operator dashboard. Stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, rootOpts *rootOptions) error {
	// 1. Load Configuration
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded config",
		"addr", cfg.Server.Addr(),
		"mode", cfg.Server.Mode,
		"counters_driver", cfg.Counters.Driver,
	)

	limits, err := cfg.Quota.Limits()
	if err != nil {
		return err
	}
	sessionGap, err := cfg.Metrics.SessionGapDuration()
	if err != nil {
		return err
	}
	refreshInterval, err := cfg.Metrics.RefreshIntervalDuration()
	if err != nil {
		return err
	}

	// 2. Initialize Storage (PostgreSQL) and run migrations
	db, err := postgres.Connect(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		db.Close()
		return err
	}

	dbAdapter, err := postgres.NewAdapter(db)
	if err != nil {
		db.Close()
		return err
	}
	defer dbAdapter.Close()

	// 3. Device-local counters
	counters, counterCheck, closeCounters, err := openCounters(cfg.Counters)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCounters(); err != nil {
			slog.Error("Failed to close counter store", "error", err)
		}
	}()

	// 4. Telemetry
	tel := telemetry.New()
	events := tel.InstrumentEventStore(dbAdapter)
	content := postgres.NewContentAdapter(dbAdapter.DB())

	// 5. Services
	ingestionSvc := ingestion.NewService(events, cfg.Server.MaxBodySizeMB)
	boardSvc := board.NewService(content, counters, ingestionSvc, limits, board.WithObserver(tel))
	dashboardSvc := dashboard.NewService(
		events,
		content,
		metrics.NewAggregator(metrics.Options{SessionGap: sessionGap}),
		dashboard.WithFetchLimit(cfg.Metrics.FetchLimit),
		dashboard.WithObserver(tel),
	)

	// 6. Initialize Server
	serverOpts := []server.Option{
		server.WithHealthCheck("database", dbAdapter.DB()),
		server.WithMetricsHandler(tel.Handler()),
	}
	if counterCheck != nil {
		serverOpts = append(serverOpts, server.WithHealthCheck("counters", counterCheck))
	}
	srv := server.New(cfg.Server.Addr(), cfg.Server.Mode, serverOpts...)
	ingestionSvc.RegisterRoutes(srv.Engine)
	boardSvc.RegisterRoutes(srv.Engine)
	dashboardSvc.RegisterRoutes(srv.Engine)

	// 7. Start background refresh if enabled
	if cfg.Metrics.RefreshEnabled {
		refresher := dashboard.NewRefresher(refreshInterval, dashboardSvc)
		go func() {
			if err := refresher.Start(ctx); err != nil {
				slog.Error("Refresher stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Dashboard refresher disabled by config")
	}

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		return err
	}

	slog.Info("Shutdown complete")
	return nil
}

// openCounters opens the configured counter store. The returned checker is
// nil when the store has nothing to health-check.
func openCounters(cfg config.CountersConfig) (storage.CounterStore, server.HealthChecker, func() error, error) {
	switch cfg.Driver {
	case config.CountersMemory:
		slog.Warn("Using in-memory counter store; quotas reset on restart")
		return memory.NewCounterStore(), nil, func() error { return nil }, nil
	default:
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		slog.Info("[SQLite] Counter store opened", "path", cfg.Path)
		return store, store, store.Close, nil
	}
}
