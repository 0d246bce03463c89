// Package app wires configuration, logging and storage into the runtime
// objects the commands share.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"insider-radar/internal/config"
	"insider-radar/internal/convergence"
	"insider-radar/internal/delivery"
	"insider-radar/internal/detect"
	"insider-radar/internal/domain"
	"insider-radar/internal/enrichment"
	"insider-radar/internal/ledger"
	"insider-radar/internal/logging"
	"insider-radar/internal/scoring"
	"insider-radar/internal/selector"
	"insider-radar/internal/storage"
	"insider-radar/internal/storage/clickhouse"
	"insider-radar/internal/storage/memory"
	"insider-radar/internal/storage/migrations"
	"insider-radar/internal/storage/postgres"
)

// App holds the wired runtime for one command invocation.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Events   storage.EventStore
	Holdings storage.HoldingStore
	Ledger   storage.LedgerStore
	Archive  storage.EventArchive // nil when no ClickHouse DSN is configured

	closers []func()
}

// New loads config, builds the logger and opens the configured stores.
// Postgres and ClickHouse schemas are migrated on open.
func New(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log}

	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := migrations.RunPostgres(ctx, pool); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		a.Events = postgres.NewEventStore(pool)
		a.Holdings = postgres.NewHoldingStore(pool)
		a.Ledger = postgres.NewLedgerStore(pool)
	default:
		a.Events = memory.NewEventStore()
		a.Holdings = memory.NewHoldingStore()
		a.Ledger = memory.NewLedgerStore()
	}

	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open clickhouse: %w", err)
		}
		a.closers = append(a.closers, func() { conn.Close() })
		if err := migrations.RunClickhouse(ctx, conn); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		a.Archive = clickhouse.NewEventArchiveStore(conn)
	}

	return a, nil
}

// Engine builds the alert selector over the opened stores.
func (a *App) Engine() (*selector.Engine, error) {
	cfg := a.Config

	analyzer := convergence.NewAnalyzer()
	detectors, err := detect.BuildAll(detect.Config{
		ClusterWindowDays: cfg.Detectors.Cluster.WindowDays,
		ClusterMinActors:  cfg.Detectors.Cluster.MinActors,
		ClusterMinValue:   cfg.Detectors.Cluster.MinValue,

		BearishWindowDays: cfg.Detectors.Bearish.WindowDays,
		BearishMinActors:  cfg.Detectors.Bearish.MinActors,
		BearishMinValue:   cfg.Detectors.Bearish.MinValue,

		CSuiteMinValue:      cfg.Detectors.CSuite.MinValue,
		LargeSingleMinValue: cfg.Detectors.LargeSingle.MinValue,

		EliteWindowDays:        cfg.Detectors.Elite.WindowDays,
		EliteMinActors:         cfg.Detectors.Elite.MinActors,
		EliteSingleMinValueLow: cfg.Detectors.Elite.SingleMinValueLow,
		EliteAllowList:         cfg.Detectors.Elite.AllowList,

		CSuiteRoles:       domain.CSuiteTags,
		CorporateEntities: domain.CorporateEntityTags,
	}, analyzer, delivery.NewStaticWatchlist(cfg.Watchlist))
	if err != nil {
		return nil, fmt.Errorf("build detectors: %w", err)
	}

	var provider enrichment.Provider = enrichment.Noop{}
	if cfg.Enrichment.Endpoint != "" {
		provider = enrichment.NewHTTPClient(cfg.Enrichment.Endpoint)
	}

	return selector.New(selector.Options{
		EventStore:   a.Events,
		HoldingStore: a.Holdings,
		Detectors:    detectors,
		Analyzer:     analyzer,
		Scorer:       scoring.NewScorer(),
		Enrichment:   provider,
		Ledger:       ledger.NewService(a.Ledger),
		Channel:      delivery.NewLogChannel(a.Log),

		InsiderLookbackDays:    cfg.Lookback.InsiderDays,
		LegislatorLookbackDays: cfg.Lookback.LegislatorDays,
		EnrichConcurrency:      cfg.Enrichment.Concurrency,
		TopN:                   cfg.Selector.TopN,
		LedgerTTLDays:          cfg.Selector.LedgerTTLDays,
		WatchlistBypass:        cfg.Selector.WatchlistBypass,
		Logger:                 a.Log,
	}), nil
}

// Close releases every opened resource, last-opened first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
