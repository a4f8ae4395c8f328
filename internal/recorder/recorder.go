package recorder

import (
	"time"

	"CurveSentinel/internal/model"
)

// ScanRun holds the operational counters of one scan. Individual signals are not stored.
type ScanRun struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Listed       int
	Scanned      int
	Filtered     int
	Failed       int
	Insufficient int
	Alerts       int
	Error        string
}

// FromReport extracts the counters of a finished scan.
func FromReport(r *model.ScanReport) *ScanRun {
	return &ScanRun{
		RunID:        r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Listed:       r.Listed,
		Scanned:      r.Scanned,
		Filtered:     r.Filtered,
		Failed:       r.Failed,
		Insufficient: r.Insufficient,
		Alerts:       len(r.Alerts),
		Error:        r.Err,
	}
}

// Recorder persists scan run statistics.
type Recorder interface {
	RecordScanRun(run *ScanRun) error
	RecentScanRuns(limit int) ([]ScanRun, error)
	Close() error
}
