package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cryptopulse/config"
	"github.com/guttosm/cryptopulse/internal/api"
	"github.com/guttosm/cryptopulse/internal/cache"
	"github.com/guttosm/cryptopulse/internal/ingestion"
	"github.com/guttosm/cryptopulse/internal/ratelimit"
	"github.com/guttosm/cryptopulse/internal/service"
	"github.com/guttosm/cryptopulse/internal/storage"
	"github.com/guttosm/cryptopulse/internal/symbols"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Dependencies are constructed explicitly in dependency order — storage,
// cache, symbol validator, rate limiter, query service, ingestion pipeline —
// and passed by reference; there are no ambient singletons beyond config and
// the logger. The stats cache instance is deliberately shared between the
// query service (read path) and the ingestion pipeline (write path), which
// clears it at the end of every cycle.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// Repository layer (responsible for DB access)
	repo := storage.NewPricesRepository(db)

	// Shared read-through cache, cleared by the pipeline after every cycle
	statsCache := cache.NewStatsCache()

	// Symbol whitelist, discovered from input files with a configured fallback
	validator := symbols.DiscoverValidator(cfg.ETL.Dir, cfg.ETL.FileSuffix, cfg.Symbols)

	// Per-client token buckets in front of the query surface
	limiter := ratelimit.New(
		cfg.RateLimit.Capacity,
		cfg.RateLimit.TokensPerMinute,
		time.Duration(cfg.RateLimit.BucketTTLMinutes)*time.Minute,
	)

	// Query service (business logic)
	svc := service.NewCryptoService(repo, validator, statsCache)

	// Ingestion pipeline, wired to the same cache it invalidates
	pipeline := ingestion.NewPipeline(repo, statsCache, cfg.ETL.Dir, cfg.ETL.FileSuffix, cfg.ETL.BatchSize, cfg.ETL.MaxParallel)

	// Scheduled import cycles
	scheduler, err := StartScheduler(cfg.ETL.Cron, pipeline)
	if err != nil {
		_ = db.Close()
		limiter.Close()
		return nil, nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	// HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler, limiter)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		scheduler.Stop()
		limiter.Close()
		_ = db.Close()
	}

	return router, cleanup, nil
}
