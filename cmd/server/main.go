package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wordflash/internal/api"
	"github.com/vytor/wordflash/internal/config"
	"github.com/vytor/wordflash/internal/db"
	"github.com/vytor/wordflash/internal/jobs"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/observability"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/worker"
)

var version = "dev"

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogFormat != "json"),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("WordFlash Server Starting (%s)", version)
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("definition_store=%s", cfg.DefinitionStore)
	log.Debug("providers=%v", cfg.Providers)
	log.Debug("cache_ttl=%v memory_cache_size=%d", cfg.CacheTTL, cfg.MemoryCacheSize)
	log.Debug("provider_timeout=%v provider_backoff=%v", cfg.ProviderTimeout, cfg.ProviderBackoff)
	log.Debug("worker_count=%d worker_queue_size=%d", cfg.WorkerCount, cfg.WorkerQueueSize)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	shutdownTracing, err := observability.InitOTel(ctx, observability.OtelConfig{
		Enabled:     cfg.OTelEnabled,
		Exporter:    cfg.OTelExporter,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: "wordflash",
		Version:     version,
	})
	if err != nil {
		log.Error("failed to initialize tracing: %v", err)
		os.Exit(1)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	itemRepo := sqlite.NewItemRepository(database.DB)
	stateRepo := sqlite.NewReviewStateRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	reportRepo := sqlite.NewReportRepository(database.DB)

	store, closeStore, err := newDefinitionStore(ctx, cfg, database.DB)
	if err != nil {
		log.Error("failed to open definition store: %v", err)
		os.Exit(1)
	}
	defer closeStore()

	gen := newGenerator(cfg)
	resolver := newResolver(cfg, store, gen)

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)

	definitionService := services.NewDefinitionService(resolver, store, stateRepo, itemRepo, cfg.CacheTTL)
	reportService := services.NewReportService(reportRepo)
	queue := jobs.NewWorkerQueue(pool, definitionService, reportService, cfg.WarmupLimit, cfg.ProviderTimeout*time.Duration(len(cfg.Providers)+1))
	itemService := services.NewItemService(itemRepo, queue)
	reviewService := services.NewReviewService(itemRepo, stateRepo, attemptRepo, newGrader(gen))

	scheduler, err := jobs.NewScheduler(queue, jobs.Schedules{
		Purge:  cfg.CachePurgeSchedule,
		Rollup: cfg.RollupSchedule,
		Warmup: cfg.WarmupSchedule,
	})
	if err != nil {
		log.Error("failed to configure scheduler: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		Items:       itemService,
		Reviews:     reviewService,
		Definitions: definitionService,
		Reports:     reportService,
		DB:          database,
		SessionSize: cfg.SessionSize,
	}

	pool.Start(ctx)
	scheduler.Start()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	scheduler.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	pool.Stop()

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("WordFlash Server Stopped")
	log.Info("===========================================")
}
