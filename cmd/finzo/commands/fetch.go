package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Collect a market snapshot",
	Long: `Collects one full market snapshot from all sources:

- NSE listed stocks, daily history, and derived indicators
- screener.in fundamentals per stock
- AMFI mutual fund NAV feed
- MCX commodity spot quotes
- News headline sentiment

The snapshot lands in the cache and, when a database is configured,
is persisted for later use.

Example:
  go run ./cmd/finzo fetch
  go run ./cmd/finzo fetch --max-stocks 10`,
	RunE: runFetch,
}

var (
	fetchMaxStocks int
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchMaxStocks, "max-stocks", 0, "cap the per-symbol crawl (0 uses COLLECTOR_MAX_STOCKS)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	maxStocks := fetchMaxStocks
	if maxStocks == 0 {
		maxStocks = cfg.Collector.MaxStocks
	}

	col, redisClient, err := newCollector(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	repo, closeDB := openRepository(ctx, cfg, log)
	defer closeDB()

	snapshot, err := col.CollectSnapshot(ctx, maxStocks)
	if err != nil {
		return fmt.Errorf("collect snapshot: %w", err)
	}

	if repo != nil {
		if err := repo.SaveSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
	}

	fmt.Printf("Snapshot collected at %s\n", snapshot.TakenAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Stocks:       %d\n", snapshot.SymbolCount())
	fmt.Printf("  Mutual funds: %d\n", len(snapshot.MutualFunds))
	fmt.Printf("  Commodities:  %d\n", len(snapshot.Commodities))
	fmt.Printf("  SIP plans:    %d\n", len(snapshot.SIPPlans))
	fmt.Printf("  Sentiment:    %s\n", snapshot.Sentiment.OverallMarket.Sentiment)
	return nil
}
