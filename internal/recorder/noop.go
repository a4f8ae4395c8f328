package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScanRun(_ *ScanRun) error          { return nil }
func (n *NoopRecorder) RecentScanRuns(_ int) ([]ScanRun, error) { return nil, nil }
func (n *NoopRecorder) Close() error                            { return nil }
