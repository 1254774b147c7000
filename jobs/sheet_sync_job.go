package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/services"
	"github.com/webinter/internship-backend/shared"
)

// SheetSyncJob periodically replaces the candidate table from the remote
// spreadsheet of record. The delete-and-insert runs inside one transaction,
// so a failed or slow sync never exposes a partially emptied table.
type SheetSyncJob struct {
	Ingest     *services.IngestService
	Interval   time.Duration
	RunTimeout time.Duration
}

func NewSheetSyncJob(ingest *services.IngestService, interval time.Duration) *SheetSyncJob {
	return &SheetSyncJob{
		Ingest:     ingest,
		Interval:   interval,
		RunTimeout: shared.NewDefaultUnifiedConfiguration().Sync.RunTimeout,
	}
}

// Configured reports whether a remote sheet URL is set.
func (j *SheetSyncJob) Configured() bool {
	return j.Ingest.SyncConfigured()
}

// Metrics exposes the sync run counters for the admin surface.
func (j *SheetSyncJob) Metrics() *shared.SyncMetrics {
	return j.Ingest.Metrics
}

// Start runs a sync immediately and then on every tick. A missing sync URL
// disables the job entirely.
func (j *SheetSyncJob) Start() {
	if !j.Configured() {
		logrus.Info("Sheet auto-sync disabled. Set SHEET_SYNC_URL to enable.")
		return
	}

	logrus.Infof("Starting Sheet Sync Job (runs every %v)...", j.Interval)
	ticker := time.NewTicker(j.Interval)

	go func() {
		j.Run()

		for range ticker.C {
			j.Run()
		}
	}()
}

// Run performs one sync cycle. Failures are logged and recorded; the next
// scheduled attempt proceeds normally with existing data untouched.
func (j *SheetSyncJob) Run() {
	startTime := time.Now()
	logrus.Info("Running Sheet Sync Job...")

	ctx, cancel := context.WithTimeout(context.Background(), j.RunTimeout)
	defer cancel()

	result, err := j.Ingest.Resync(ctx)
	duration := time.Since(startTime)
	j.Ingest.Metrics.RecordRun(result.Accepted, result.Skipped, duration, err)

	if err != nil {
		logrus.Errorf("Sheet Sync Job failed: %v", err)
		return
	}

	logrus.Infof("Sheet Sync Job completed successfully: %d candidates synced, %d skipped (took %v)",
		result.Accepted, result.Skipped, duration)
}
