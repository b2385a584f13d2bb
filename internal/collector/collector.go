package collector

import (
	"context"
	"sync"
	"time"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/internal/external/amfi"
	"github.com/finzo/backend/internal/external/mcx"
	"github.com/finzo/backend/internal/external/nse"
	"github.com/finzo/backend/internal/external/screener"
	"github.com/finzo/backend/internal/sentiment"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
	"github.com/finzo/backend/pkg/redis"
)

const historyDays = 365

// snapshotCacheKey addresses the single cached snapshot; a refresh
// replaces it wholesale.
var snapshotCacheKey = redis.SnapshotKey("latest")

// Collector orchestrates market data collection from all external sources
// and assembles immutable snapshots. Per-symbol work fans out over a
// bounded worker pool.
type Collector struct {
	nseClient      *nse.Client
	screenerClient *screener.Client
	amfiClient     *amfi.Client
	mcxClient      *mcx.Client
	sentimentSvc   *sentiment.Service
	cache          *redis.Cache
	cfg            config.CollectorConfig
	logger         *logger.Logger
}

// New creates a new Collector instance
func New(
	nseClient *nse.Client,
	screenerClient *screener.Client,
	amfiClient *amfi.Client,
	mcxClient *mcx.Client,
	sentimentSvc *sentiment.Service,
	cache *redis.Cache,
	cfg config.CollectorConfig,
	log *logger.Logger,
) *Collector {
	return &Collector{
		nseClient:      nseClient,
		screenerClient: screenerClient,
		amfiClient:     amfiClient,
		mcxClient:      mcxClient,
		sentimentSvc:   sentimentSvc,
		cache:          cache,
		cfg:            cfg,
		logger:         log.WithField("module", "collector"),
	}
}

// symbolResult carries one symbol's collected data out of the worker pool.
type symbolResult struct {
	symbol      string
	technical   contracts.TechnicalIndicators
	fundamental contracts.Fundamentals
	err         error
}

// CollectSnapshot gathers data from every source and assembles a snapshot.
// maxStocks caps the per-symbol crawl (0 means no cap). Individual symbol
// failures are logged and skipped; source-level failures fall back to
// samples so a snapshot is always produced.
func (c *Collector) CollectSnapshot(ctx context.Context, maxStocks int) (*contracts.MarketSnapshot, error) {
	started := time.Now()

	stocks, err := c.nseClient.FetchStockList(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Stock list fetch failed, using fallback symbols")
		stocks = nse.FallbackStocks()
	}
	if maxStocks > 0 && len(stocks) > maxStocks {
		stocks = stocks[:maxStocks]
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_count": len(stocks),
		"workers":     c.cfg.Workers,
	}).Info("Starting snapshot collection")

	technical, fundamental := c.collectSymbols(ctx, stocks)

	funds, err := c.amfiClient.FetchFunds(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Mutual fund fetch failed, using samples")
		funds = amfi.SampleFunds()
	}

	commodities, err := c.mcxClient.FetchCommodities(ctx)
	if err != nil || len(commodities) == 0 {
		if err != nil {
			c.logger.WithError(err).Warn("Commodity fetch failed, using samples")
		} else {
			c.logger.Warn("No commodities fetched, using samples")
		}
		commodities = mcx.SampleCommodities()
	}

	snapshot := &contracts.MarketSnapshot{
		TakenAt:     time.Now(),
		Technical:   technical,
		Fundamental: fundamental,
		MutualFunds: funds,
		Commodities: commodities,
		SIPPlans:    contracts.DefaultSIPPlans(),
		Sentiment:   c.sentimentSvc.MarketSentiment(ctx),
	}

	if err := c.cacheSnapshot(ctx, snapshot); err != nil {
		c.logger.WithError(err).Warn("Failed to cache snapshot")
	}

	c.logger.WithFields(map[string]interface{}{
		"symbols":      snapshot.SymbolCount(),
		"mutual_funds": len(snapshot.MutualFunds),
		"commodities":  len(snapshot.Commodities),
		"elapsed":      time.Since(started).String(),
	}).Info("Snapshot collection completed")

	return snapshot, nil
}

// collectSymbols fans per-symbol fetching out over the worker pool and
// gathers the successes.
func (c *Collector) collectSymbols(ctx context.Context, stocks []nse.Stock) (
	map[string]contracts.TechnicalIndicators,
	map[string]contracts.Fundamentals,
) {
	stockCh := make(chan nse.Stock, len(stocks))
	resultCh := make(chan symbolResult, len(stocks))

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.symbolWorker(ctx, stockCh, resultCh)
		}()
	}

	for _, stock := range stocks {
		stockCh <- stock
	}
	close(stockCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	technical := make(map[string]contracts.TechnicalIndicators)
	fundamental := make(map[string]contracts.Fundamentals)
	failed := 0
	for result := range resultCh {
		if result.err != nil {
			failed++
			c.logger.WithError(result.err).WithField("symbol", result.symbol).Warn("Symbol collection failed")
			continue
		}
		technical[result.symbol] = result.technical
		fundamental[result.symbol] = result.fundamental
	}

	c.logger.WithFields(map[string]interface{}{
		"success": len(technical),
		"failed":  failed,
	}).Info("Symbol collection completed")

	return technical, fundamental
}

func (c *Collector) symbolWorker(ctx context.Context, stockCh <-chan nse.Stock, resultCh chan<- symbolResult) {
	for stock := range stockCh {
		select {
		case <-ctx.Done():
			resultCh <- symbolResult{symbol: stock.Symbol, err: ctx.Err()}
			continue
		default:
		}

		tech, fund, err := c.collectSymbol(ctx, stock)
		if err != nil {
			resultCh <- symbolResult{symbol: stock.Symbol, err: err}
			continue
		}

		resultCh <- symbolResult{
			symbol:      stock.Symbol,
			technical:   tech,
			fundamental: fund,
		}
	}
}

// collectSymbol fetches one symbol's data, caching each piece on its own
// TTL: fundamentals are daily-stable, indicators churn intraday.
func (c *Collector) collectSymbol(ctx context.Context, stock nse.Stock) (
	contracts.TechnicalIndicators,
	contracts.Fundamentals,
	error,
) {
	var tech contracts.TechnicalIndicators
	err := c.cache.GetOrSet(ctx, redis.TechnicalKey(stock.Symbol), &tech, redis.TTLMedium, func() (interface{}, error) {
		candles, err := c.nseClient.FetchDailyHistory(ctx, stock.Symbol, historyDays)
		if err != nil {
			return nil, err
		}
		return nse.ComputeIndicators(candles), nil
	})
	if err != nil {
		return tech, contracts.Fundamentals{}, err
	}

	var fund contracts.Fundamentals
	err = c.cache.GetOrSet(ctx, redis.FundamentalKey(stock.Symbol), &fund, redis.TTLDaily, func() (interface{}, error) {
		return c.screenerClient.FetchFundamentals(ctx, stock.Symbol, stock.Name)
	})
	if err != nil {
		return tech, fund, err
	}

	return tech, fund, nil
}

func (c *Collector) cacheSnapshot(ctx context.Context, snapshot *contracts.MarketSnapshot) error {
	return c.cache.Set(ctx, snapshotCacheKey, snapshot, c.cfg.SnapshotTTL)
}

// RefreshSentiment re-analyzes headlines and updates the cached snapshot in
// place, leaving the heavier market data untouched.
func (c *Collector) RefreshSentiment(ctx context.Context) error {
	snapshot, err := c.CachedSnapshot(ctx)
	if err != nil {
		return err
	}
	snapshot.Sentiment = c.sentimentSvc.MarketSentiment(ctx)
	return c.cacheSnapshot(ctx, snapshot)
}

// CachedSnapshot returns the most recent cached snapshot, or
// ErrDataUnavailable when none is cached.
func (c *Collector) CachedSnapshot(ctx context.Context) (*contracts.MarketSnapshot, error) {
	var snapshot contracts.MarketSnapshot
	found, err := c.cache.Get(ctx, snapshotCacheKey, &snapshot)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, contracts.ErrDataUnavailable
	}
	return &snapshot, nil
}
