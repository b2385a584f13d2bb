package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finzo/backend/internal/scheduler"
	"github.com/finzo/backend/internal/scheduler/jobs"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the refresh scheduler",
	Long: `Runs the periodic refresh jobs:

- snapshot_refresh:  full market snapshot every 30 minutes
- sentiment_refresh: news sentiment every hour

Example:
  go run ./cmd/finzo scheduler
  go run ./cmd/finzo scheduler --run-now`,
	RunE: runScheduler,
}

var (
	schedulerRunNow bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run the snapshot job immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	col, redisClient, err := newCollector(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	repo, closeDB := openRepository(cmd.Context(), cfg, log)
	defer closeDB()

	sched := scheduler.New(log)

	snapshotJob := jobs.NewSnapshotRefreshJob(col, repo, cfg, log)
	if err := sched.AddJob(snapshotJob); err != nil {
		return fmt.Errorf("add snapshot job: %w", err)
	}
	if err := sched.AddJob(jobs.NewSentimentRefreshJob(col, log)); err != nil {
		return fmt.Errorf("add sentiment job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(snapshotJob.Name()); err != nil {
			return fmt.Errorf("run snapshot job: %w", err)
		}
	}

	fmt.Println("Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
