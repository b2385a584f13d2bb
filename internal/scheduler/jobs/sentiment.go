package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/logger"
)

// SentimentRefreshJob re-scores news sentiment between full snapshot
// refreshes. Headlines churn much faster than fundamentals, so this runs
// on a tighter schedule than the snapshot job.
type SentimentRefreshJob struct {
	collector *collector.Collector
	logger    *logger.Logger
}

// NewSentimentRefreshJob creates a new sentiment refresh job
func NewSentimentRefreshJob(col *collector.Collector, log *logger.Logger) *SentimentRefreshJob {
	return &SentimentRefreshJob{
		collector: col,
		logger:    log,
	}
}

// Name returns the job name
func (j *SentimentRefreshJob) Name() string {
	return "sentiment_refresh"
}

// Schedule returns the cron schedule (hourly, offset from the snapshot job)
func (j *SentimentRefreshJob) Schedule() string {
	return "0 15 * * * *"
}

// Run refreshes the sentiment section of the cached snapshot.
func (j *SentimentRefreshJob) Run(ctx context.Context) error {
	err := j.collector.RefreshSentiment(ctx)
	if errors.Is(err, contracts.ErrDataUnavailable) {
		// Nothing cached yet; the snapshot job will bring sentiment along
		j.logger.Info("No cached snapshot, skipping sentiment refresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh sentiment: %w", err)
	}

	j.logger.Info("Sentiment refresh completed")
	return nil
}
