package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveSentinel/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "scans.db"))
	require.NoError(t, err)
	defer rec.Close()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		report := &model.ScanReport{
			RunID:      []string{"a", "b", "c"}[i],
			StartedAt:  start.Add(time.Duration(i) * time.Minute),
			FinishedAt: start.Add(time.Duration(i)*time.Minute + 20*time.Second),
			Listed:     300,
			Scanned:    120,
			Filtered:   170,
			Failed:     i,
			Alerts:     make([]model.Alert, i),
		}
		require.NoError(t, rec.RecordScanRun(FromReport(report)))
	}

	runs, err := rec.RecentScanRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RunID)
	assert.Equal(t, "b", runs[1].RunID)
	assert.Equal(t, 2, runs[0].Alerts)
	assert.Equal(t, 2, runs[0].Failed)
	assert.Equal(t, 300, runs[0].Listed)
	assert.True(t, runs[0].StartedAt.Equal(start.Add(2*time.Minute)))
	assert.Equal(t, 20*time.Second, runs[0].FinishedAt.Sub(runs[0].StartedAt))
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	assert.NoError(t, rec.RecordScanRun(&ScanRun{}))
	runs, err := rec.RecentScanRuns(10)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.Close())
}

func TestSQLiteRecorder_CreatesDirectory(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "data", "nested", "scans.db"))
	require.NoError(t, err)
	require.NoError(t, rec.Close())
}
