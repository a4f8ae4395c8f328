package model

import "time"

// Divergence is the outcome of the curve divergence classifier.
type Divergence string

const (
	DivergenceNone Divergence = "NONE"
	BullishCurve   Divergence = "BULLISH_CURVE"
	BearishCurve   Divergence = "BEARISH_CURVE"
)

// IsSignal reports whether d is a bullish or bearish verdict.
func (d Divergence) IsSignal() bool {
	return d == BullishCurve || d == BearishCurve
}

// Outcome classifies how a single symbol ended during a scan.
type Outcome string

const (
	OutcomeAlert        Outcome = "alert"
	OutcomeNoSignal     Outcome = "no_signal"
	OutcomeLowVolume    Outcome = "low_volume"
	OutcomeFiltered     Outcome = "filtered"
	OutcomeInsufficient Outcome = "insufficient"
	OutcomeFailed       Outcome = "failed"
)

// Alert is emitted when a symbol shows a divergence and passes the price and volume filters.
type Alert struct {
	Symbol     string
	Interval   string
	Price      float64
	Volume     float64
	Divergence Divergence
	PriceSlope float64
	RSISlope   float64
	MACDSlope  float64
	At         time.Time
}

// ScanReport summarises one full pass over the market list.
type ScanReport struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Listed       int
	Scanned      int
	Filtered     int
	Failed       int
	Insufficient int
	Alerts       []Alert
	Err          string
}

// Duration returns how long the scan took.
func (r *ScanReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Add counts the outcome of one symbol. Insufficient symbols were fetched and count as scanned.
func (r *ScanReport) Add(o Outcome, a *Alert) {
	switch o {
	case OutcomeFiltered:
		r.Filtered++
	case OutcomeFailed:
		r.Failed++
	case OutcomeInsufficient:
		r.Scanned++
		r.Insufficient++
	default:
		r.Scanned++
	}
	if a != nil {
		r.Alerts = append(r.Alerts, *a)
	}
}
