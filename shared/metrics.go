package shared

import (
	"sync"
	"time"
)

// SyncMetrics tracks the outcome of spreadsheet sync runs so the admin
// surface can report on them without reaching into the job.
type SyncMetrics struct {
	TotalRuns      int64         `json:"total_runs"`
	SuccessfulRuns int64         `json:"successful_runs"`
	FailedRuns     int64         `json:"failed_runs"`
	LastRunAt      time.Time     `json:"last_run_at"`
	LastDuration   time.Duration `json:"last_duration"`
	LastAccepted   int           `json:"last_accepted"`
	LastSkipped    int           `json:"last_skipped"`
	LastError      string        `json:"last_error,omitempty"`
	mutex          sync.RWMutex
}

// NewSyncMetrics creates an empty metrics tracker.
func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{}
}

// RecordRun records the outcome of one sync run.
func (m *SyncMetrics) RecordRun(accepted, skipped int, duration time.Duration, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRuns++
	m.LastRunAt = time.Now()
	m.LastDuration = duration
	m.LastAccepted = accepted
	m.LastSkipped = skipped

	if err != nil {
		m.FailedRuns++
		m.LastError = err.Error()
	} else {
		m.SuccessfulRuns++
		m.LastError = ""
	}
}

// GetSuccessRate returns the success rate as a percentage
func (m *SyncMetrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalRuns == 0 {
		return 0.0
	}
	return float64(m.SuccessfulRuns) / float64(m.TotalRuns) * 100.0
}

// Snapshot returns a copy of the current metrics for serialization.
func (m *SyncMetrics) Snapshot() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snapshot := map[string]interface{}{
		"total_runs":      m.TotalRuns,
		"successful_runs": m.SuccessfulRuns,
		"failed_runs":     m.FailedRuns,
		"last_accepted":   m.LastAccepted,
		"last_skipped":    m.LastSkipped,
		"last_duration":   m.LastDuration.String(),
	}
	if !m.LastRunAt.IsZero() {
		snapshot["last_run_at"] = m.LastRunAt
	}
	if m.LastError != "" {
		snapshot["last_error"] = m.LastError
	}
	return snapshot
}
