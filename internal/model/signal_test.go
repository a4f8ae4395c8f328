package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDivergenceIsSignal(t *testing.T) {
	assert.True(t, BullishCurve.IsSignal())
	assert.True(t, BearishCurve.IsSignal())
	assert.False(t, DivergenceNone.IsSignal())
}

func TestScanReportAdd(t *testing.T) {
	r := &ScanReport{}
	r.Add(OutcomeFiltered, nil)
	r.Add(OutcomeFailed, nil)
	r.Add(OutcomeInsufficient, nil)
	r.Add(OutcomeNoSignal, nil)
	r.Add(OutcomeLowVolume, nil)
	r.Add(OutcomeAlert, &Alert{Symbol: "BULLUSDT", Divergence: BullishCurve})

	assert.Equal(t, 1, r.Filtered)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Insufficient)
	assert.Equal(t, 4, r.Scanned)
	assert.Len(t, r.Alerts, 1)
}

func TestScanReportDuration(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := &ScanReport{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, r.Duration())
}

func TestLatestVolume(t *testing.T) {
	assert.Zero(t, (&PriceSeries{}).LatestVolume())
	p := &PriceSeries{Bars: []OHLCV{{Volume: 1}, {Volume: 7}}}
	assert.Equal(t, 7.0, p.LatestVolume())
}
