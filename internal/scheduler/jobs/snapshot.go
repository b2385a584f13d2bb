package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/store"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// snapshotRetention bounds how far back persisted snapshots are kept.
const snapshotRetention = 7 * 24 * time.Hour

// SnapshotRefreshJob rebuilds the market snapshot from all sources and
// persists it. The repository may be nil when running without a database;
// the snapshot still lands in the cache.
type SnapshotRefreshJob struct {
	collector *collector.Collector
	repo      *store.Repository
	cfg       *config.Config
	logger    *logger.Logger
}

// NewSnapshotRefreshJob creates a new snapshot refresh job
func NewSnapshotRefreshJob(col *collector.Collector, repo *store.Repository, cfg *config.Config, log *logger.Logger) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{
		collector: col,
		repo:      repo,
		cfg:       cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *SnapshotRefreshJob) Name() string {
	return "snapshot_refresh"
}

// Schedule returns the cron schedule (every 30 minutes)
func (j *SnapshotRefreshJob) Schedule() string {
	return "0 */30 * * * *"
}

// Run collects a fresh snapshot and stores it.
func (j *SnapshotRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled snapshot refresh")

	snapshot, err := j.collector.CollectSnapshot(ctx, j.cfg.Collector.MaxStocks)
	if err != nil {
		return fmt.Errorf("collect snapshot: %w", err)
	}

	if j.repo != nil {
		if err := j.repo.SaveSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
		if pruned, err := j.repo.PruneSnapshots(ctx, snapshotRetention); err != nil {
			j.logger.WithError(err).Warn("Snapshot pruning failed")
		} else if pruned > 0 {
			j.logger.WithField("pruned", pruned).Info("Pruned old snapshots")
		}
	}

	j.logger.WithField("symbols", snapshot.SymbolCount()).Info("Scheduled snapshot refresh completed")
	return nil
}
