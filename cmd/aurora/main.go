package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/app"
	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
	"github.com/aurora-hmis/aurora-hmis/internal/consolidation"
	"github.com/aurora-hmis/aurora-hmis/internal/execution"
	"github.com/aurora-hmis/aurora-hmis/internal/ledger"
	"github.com/aurora-hmis/aurora-hmis/internal/masterdata"
	"github.com/aurora-hmis/aurora-hmis/internal/observability"
	"github.com/aurora-hmis/aurora-hmis/internal/planning"
	"github.com/aurora-hmis/aurora-hmis/internal/platform/cache"
	"github.com/aurora-hmis/aurora-hmis/internal/platform/db"
	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	// Financial amounts serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, db.Config{
		DSN:             cfg.PGDSN,
		MaxConns:        cfg.PGMaxConns,
		MinConns:        cfg.PGMinConns,
		MaxConnLifetime: cfg.PGConnLifetime,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportCache := cache.New(redisClient, cfg.ReportCacheTTL)
	metrics := observability.NewMetrics()

	catalogRepo := catalog.NewRepository(dbpool)
	catalogHandler := catalog.NewHandler(logger, catalogRepo)

	ledgerRepo := ledger.NewRepository()
	ledgerService := ledger.NewService(ledgerRepo, logger, metrics)

	planningRepo := planning.NewRepository(dbpool)
	planningService := planning.NewService(planningRepo, ledgerService, reportCache, logger)
	planningHandler := planning.NewHandler(logger, planningService)

	executionRepo := execution.NewRepository(dbpool)
	executionService := execution.NewService(executionRepo, ledgerService, reportCache, logger)
	executionHandler := execution.NewHandler(logger, executionService)

	masterdataRepo := masterdata.NewRepository(dbpool)
	masterdataService := masterdata.NewService(masterdataRepo)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService)

	statementRepo := statement.NewRepository(dbpool)
	statementService := statement.NewService(statementRepo, reportCache, logger, metrics)
	statementHandler := statement.NewHandler(logger, statementService)

	consolidationRepo := consolidation.NewRepository(dbpool)
	consolidationService := consolidation.NewService(consolidationRepo, statementService, reportCache, logger)
	consolidationHandler := consolidation.NewHandler(logger, consolidationService)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		CatalogHandler:       catalogHandler,
		PlanningHandler:      planningHandler,
		ExecutionHandler:     executionHandler,
		MasterDataHandler:    masterdataHandler,
		StatementHandler:     statementHandler,
		ConsolidationHandler: consolidationHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
