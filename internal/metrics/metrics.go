package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"CurveSentinel/internal/model"
)

var ScansTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curvesentinel_scans_total",
		Help: "Number of completed market scans by result.",
	}, []string{"result"})

var ScanDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "curvesentinel_scan_duration_seconds",
		Help:    "Wall time of a full market scan.",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

var SymbolOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curvesentinel_symbol_outcomes_total",
		Help: "Per-symbol scan outcomes.",
	}, []string{"outcome"})

var DivergencesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curvesentinel_divergences_total",
		Help: "Divergences detected before volume filtering.",
	}, []string{"type"})

var ExchangeRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curvesentinel_exchange_requests_total",
		Help: "Exchange REST requests by endpoint and result.",
	}, []string{"exchange", "endpoint", "result"})

var LastScanAlerts = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "curvesentinel_last_scan_alerts",
		Help: "Alerts emitted by the most recent scan.",
	})

func init() {
	prometheus.MustRegister(
		ScansTotal,
		ScanDuration,
		SymbolOutcomes,
		DivergencesTotal,
		ExchangeRequests,
		LastScanAlerts,
	)
}

// ObserveOutcome counts how one symbol ended.
func ObserveOutcome(o model.Outcome) {
	SymbolOutcomes.WithLabelValues(string(o)).Inc()
}

// ObserveDivergence counts a non-null classifier verdict.
func ObserveDivergence(d model.Divergence) {
	if d.IsSignal() {
		DivergencesTotal.WithLabelValues(string(d)).Inc()
	}
}

// ObserveRequest counts an exchange call.
func ObserveRequest(exchange, endpoint string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ExchangeRequests.WithLabelValues(exchange, endpoint, result).Inc()
}

// ObserveScan records the duration and result of a finished scan.
func ObserveScan(r *model.ScanReport) {
	result := "ok"
	if r.Err != "" {
		result = "error"
	}
	ScansTotal.WithLabelValues(result).Inc()
	ScanDuration.Observe(r.Duration().Seconds())
	LastScanAlerts.Set(float64(len(r.Alerts)))
}
