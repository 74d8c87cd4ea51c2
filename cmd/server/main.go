package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/asset-ledger/internal/config"
	"github.com/Spok95/asset-ledger/internal/domain/allocation"
	"github.com/Spok95/asset-ledger/internal/domain/assets"
	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/catalog"
	"github.com/Spok95/asset-ledger/internal/domain/employees"
	"github.com/Spok95/asset-ledger/internal/domain/transfer"
	"github.com/Spok95/asset-ledger/internal/domain/valuation"
	"github.com/Spok95/asset-ledger/internal/infra/db"
	httpx "github.com/Spok95/asset-ledger/internal/infra/http"
	"github.com/Spok95/asset-ledger/internal/infra/logger"
	"github.com/Spok95/asset-ledger/internal/report"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	catalogRepo := catalog.NewRepo(pool)
	assetRepo := assets.NewRepo(pool)
	employeeRepo := employees.NewRepo(pool)
	batchRepo := batches.NewRepo(pool)
	targetRepo := allocation.NewTargetRepo(pool)
	engine := allocation.NewEngine(pool)
	transfers := transfer.NewCoordinator(pool)
	agg := valuation.NewAggregator(pool)
	reports := report.NewExporter(assetRepo, batchRepo, agg)

	api := httpx.NewAPI(log, catalogRepo, assetRepo, employeeRepo, batchRepo, targetRepo, engine, transfers, agg, reports)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
