package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/database"
	"github.com/finzo/backend/pkg/logger"
	"github.com/finzo/backend/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backing service health",
	Long: `Checks the database and Redis connections and reports whether a
market snapshot is available.

Example:
  go run ./cmd/finzo status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	fmt.Println("=== Finzo Status ===")

	// Database
	if db, err := database.New(cfg); err != nil {
		fmt.Printf("Database:  unavailable (%v)\n", err)
	} else {
		status, err := db.HealthCheck(ctx)
		if err != nil {
			fmt.Printf("Database:  unhealthy (%v)\n", err)
		} else {
			fmt.Printf("Database:  ok (%d/%d conns, %v)\n",
				status.Stats.TotalConns, status.Stats.MaxConns, status.ResponseTime)
		}
		db.Close()
	}

	// Redis and cached snapshot
	redisClient, err := redis.New(cfg)
	if err != nil {
		fmt.Printf("Redis:     unavailable (%v)\n", err)
		return nil
	}
	defer redisClient.Close()

	if !redisClient.Enabled() {
		fmt.Println("Redis:     disabled")
		return nil
	}
	fmt.Println("Redis:     ok")

	col, colRedis, err := newCollector(cfg, log)
	if err != nil {
		return err
	}
	defer colRedis.Close()

	snapshot, err := col.CachedSnapshot(ctx)
	if err != nil {
		fmt.Println("Snapshot:  none cached")
		return nil
	}
	fmt.Printf("Snapshot:  %s (%d stocks, %d funds, %d commodities)\n",
		snapshot.TakenAt.Format("2006-01-02 15:04:05"),
		snapshot.SymbolCount(), len(snapshot.MutualFunds), len(snapshot.Commodities))
	return nil
}
