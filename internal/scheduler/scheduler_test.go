package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     int
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	return nil
}

func testScheduler() *Scheduler {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
	return New(log)
}

func TestAddJob(t *testing.T) {
	s := testScheduler()
	job := &stubJob{name: "refresh", schedule: "0 */30 * * * *"}

	require.NoError(t, s.AddJob(job))
	assert.Contains(t, s.JobNames(), "refresh")

	// Same name twice is rejected
	err := s.AddJob(&stubJob{name: "refresh", schedule: "0 0 * * * *"})
	assert.Error(t, err)
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := testScheduler()
	err := s.AddJob(&stubJob{name: "bad", schedule: "not a cron expression"})
	assert.Error(t, err)
}

func TestRunJob_RecordsHistory(t *testing.T) {
	s := testScheduler()
	job := &stubJob{name: "refresh", schedule: "0 */30 * * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("refresh"))

	// RunJob executes asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for {
		history, err := s.JobHistoryFor("refresh")
		require.NoError(t, err)
		if len(history.Results) > 0 {
			assert.True(t, history.Results[0].Success)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job never recorded a result")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stats := s.Stats()
	require.Contains(t, stats, "refresh")
	assert.Equal(t, 1, stats["refresh"].TotalRuns)
	assert.Equal(t, 1, stats["refresh"].SuccessCount)
	assert.NotNil(t, stats["refresh"].LastSuccess)
}

func TestRunJob_Unknown(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 105; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100)
	assert.Len(t, h.LatestResults(10), 10)
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.02)
}
