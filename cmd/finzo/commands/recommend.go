package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/internal/engine"
	"github.com/finzo/backend/internal/store"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate recommendations for a profile",
	Long: `Scores a financial profile against the latest market snapshot and
prints the full recommendation bundle as JSON.

The profile is read from --profile, or from stdin when the flag is
omitted. Amounts are rupees; risk tolerance may be numeric (1-10) or
descriptive ("conservative", "moderate", "aggressive").

Example:
  go run ./cmd/finzo recommend --profile profile.json
  cat profile.json | go run ./cmd/finzo recommend
  go run ./cmd/finzo recommend --profile profile.json --collect`,
	RunE: runRecommend,
}

var (
	recommendProfile string
	recommendCollect bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendProfile, "profile", "", "path to the profile JSON (default stdin)")
	recommendCmd.Flags().BoolVar(&recommendCollect, "collect", false, "collect a fresh snapshot instead of using the cached one")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	raw, err := readProfile(recommendProfile)
	if err != nil {
		return err
	}

	col, redisClient, err := newCollector(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	repo, closeDB := openRepository(ctx, cfg, log)
	defer closeDB()

	snapshot, err := resolveSnapshot(ctx, cfg, col, repo, recommendCollect)
	if err != nil {
		return err
	}

	eng := engine.New(cfg.Engine, log)
	bundle, err := eng.Recommend(raw, snapshot)
	if err != nil {
		return fmt.Errorf("generate recommendations: %w", err)
	}

	if repo != nil {
		if err := repo.SaveBundle(ctx, bundle); err != nil {
			log.WithError(err).Warn("Failed to persist recommendation bundle")
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(bundle)
}

func readProfile(path string) (contracts.RawProfile, error) {
	var raw contracts.RawProfile

	source := os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return raw, fmt.Errorf("open profile: %w", err)
		}
		defer f.Close()
		source = f
	}

	if err := json.NewDecoder(source).Decode(&raw); err != nil {
		return raw, fmt.Errorf("parse profile: %w", err)
	}
	return raw, nil
}

// resolveSnapshot prefers the cache, then the database, and finally a
// fresh collection pass when asked to (or when nothing is stored at all).
func resolveSnapshot(
	ctx context.Context,
	cfg *config.Config,
	col *collector.Collector,
	repo *store.Repository,
	forceCollect bool,
) (*contracts.MarketSnapshot, error) {
	if !forceCollect {
		snapshot, err := col.CachedSnapshot(ctx)
		if err == nil {
			return snapshot, nil
		}
		if repo != nil {
			snapshot, err = repo.LatestSnapshot(ctx)
			if err == nil {
				return snapshot, nil
			}
			if !errors.Is(err, contracts.ErrDataUnavailable) {
				return nil, fmt.Errorf("load snapshot: %w", err)
			}
		}
	}

	snapshot, err := col.CollectSnapshot(ctx, cfg.Collector.MaxStocks)
	if err != nil {
		return nil, fmt.Errorf("collect snapshot: %w", err)
	}
	if repo != nil {
		if err := repo.SaveSnapshot(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("persist snapshot: %w", err)
		}
	}
	return snapshot, nil
}
