package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/catalog"
	"github.com/kailas-cloud/schemedex/internal/config"
	"github.com/kailas-cloud/schemedex/internal/harvest"
	logpkg "github.com/kailas-cloud/schemedex/internal/logger"
	"github.com/kailas-cloud/schemedex/internal/metrics"
	"github.com/kailas-cloud/schemedex/internal/repository/postgres"
	schemerepo "github.com/kailas-cloud/schemedex/internal/repository/scheme"
	ingestuc "github.com/kailas-cloud/schemedex/internal/usecase/ingest"
	"github.com/kailas-cloud/schemedex/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "harvester",
		Usage:   "Crawl the scheme catalog and ingest records",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Configuration environment (local, prod)",
				Value: config.GetEnv(),
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Expose /metrics on this address for the run (empty disables)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	env := c.String("env")

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting harvest run",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.Int("page_size", cfg.Catalog.PageSize),
	)

	metrics.RegisterHarvestMetrics()
	if addr := c.String("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	// A crawl can outlive most timeouts; only signals cancel it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("Connected to database")

	repo := schemerepo.New(store.Pool())
	sink := ingestuc.New(repo, logger)
	client := catalog.New(cfg.Catalog, logger)
	harvester := harvest.New(client, sink, cfg.Catalog.PageSize, cfg.Catalog.PublicURLBase, logger)

	sum, err := harvester.Run(ctx)
	if err != nil {
		return fmt.Errorf("harvest run: %w", err)
	}

	logger.Info("Harvest finished",
		zap.Int("catalog_total", sum.CatalogTotal),
		zap.Int("inserted", sum.Inserted),
		zap.Int("duplicates_skipped", sum.DuplicatesSkipped),
		zap.Int("pages_skipped", sum.PagesSkipped),
		zap.Int("missing_slugs", sum.MissingSlugs),
		zap.Int("details_skipped", sum.DetailsSkipped),
		zap.Int("records_emitted", sum.RecordsEmitted),
		zap.Int("degraded_records", sum.DegradedRecords),
		zap.Int("failed", sum.Failed),
	)
	return nil
}
