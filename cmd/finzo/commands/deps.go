package commands

import (
	"context"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/sentiment"
	"github.com/finzo/backend/internal/store"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/database"
	"github.com/finzo/backend/pkg/httputil"
	"github.com/finzo/backend/pkg/logger"
	"github.com/finzo/backend/pkg/redis"

	"github.com/finzo/backend/internal/external/amfi"
	"github.com/finzo/backend/internal/external/mcx"
	"github.com/finzo/backend/internal/external/nse"
	"github.com/finzo/backend/internal/external/screener"
)

const cachePrefix = "finzo"

// newCollector wires every external client behind one collector.
func newCollector(cfg *config.Config, log *logger.Logger) (*collector.Collector, *redis.Client, error) {
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cache := redis.NewCache(redisClient, cachePrefix)
	limiter := redis.NewRateLimiter(redisClient, cachePrefix)

	// Every source gets its own client so rate limits apply per target
	nseHTTP := httputil.New(cfg, log).WithRateLimiter(limiter, redis.NSERateLimit)
	screenerHTTP := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.ScreenerRateLimit).
		WithLocalRateLimit(2, 2)
	amfiHTTP := httputil.New(cfg, log).WithRateLimiter(limiter, redis.AMFIRateLimit)

	nseClient := nse.NewClient(cfg.NSE, nseHTTP, log)
	screenerClient := screener.NewClient(cfg.Screener, screenerHTTP, log)
	amfiClient := amfi.NewClient(cfg.AMFI, amfiHTTP, log)
	mcxClient := mcx.NewClient(cfg.MCX, httputil.New(cfg, log).WithLocalRateLimit(2, 2), log)

	fetcher := sentiment.NewFetcher(cfg.News, httputil.New(cfg, log), log)
	sentimentSvc := sentiment.NewService(fetcher, sentiment.NewAnalyzer(), log)

	col := collector.New(
		nseClient, screenerClient, amfiClient, mcxClient,
		sentimentSvc, cache, cfg.Collector, log,
	)
	return col, redisClient, nil
}

// openRepository connects to the database and ensures the schema. A missing
// database is not fatal for serving: the caller gets a nil repository and
// runs cache-only.
func openRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store.Repository, func()) {
	db, err := database.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Database unavailable, running without persistence")
		return nil, func() {}
	}

	repo := store.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.WithError(err).Warn("Schema setup failed, running without persistence")
		db.Close()
		return nil, func() {}
	}

	log.Info("Connected to database")
	return repo, db.Close
}
