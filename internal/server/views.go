package server

import (
	"time"

	"CurveSentinel/internal/model"
	"CurveSentinel/internal/recorder"
)

type alertView struct {
	Symbol     string    `json:"symbol"`
	Interval   string    `json:"interval"`
	Price      float64   `json:"price"`
	Volume     float64   `json:"volume"`
	Divergence string    `json:"divergence"`
	PriceSlope float64   `json:"price_slope"`
	RSISlope   float64   `json:"rsi_slope"`
	MACDSlope  float64   `json:"macd_slope"`
	At         time.Time `json:"at"`
}

type reportView struct {
	RunID        string      `json:"run_id"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
	DurationMS   int64       `json:"duration_ms"`
	Listed       int         `json:"listed"`
	Scanned      int         `json:"scanned"`
	Filtered     int         `json:"filtered"`
	Failed       int         `json:"failed"`
	Insufficient int         `json:"insufficient"`
	Alerts       []alertView `json:"alerts"`
	Error        string      `json:"error,omitempty"`
}

func newReportView(r *model.ScanReport) reportView {
	v := reportView{
		RunID:        r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		DurationMS:   r.Duration().Milliseconds(),
		Listed:       r.Listed,
		Scanned:      r.Scanned,
		Filtered:     r.Filtered,
		Failed:       r.Failed,
		Insufficient: r.Insufficient,
		Alerts:       make([]alertView, 0, len(r.Alerts)),
		Error:        r.Err,
	}
	for _, a := range r.Alerts {
		v.Alerts = append(v.Alerts, alertView{
			Symbol:     a.Symbol,
			Interval:   a.Interval,
			Price:      a.Price,
			Volume:     a.Volume,
			Divergence: string(a.Divergence),
			PriceSlope: a.PriceSlope,
			RSISlope:   a.RSISlope,
			MACDSlope:  a.MACDSlope,
			At:         a.At,
		})
	}
	return v
}

type scanRunView struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Listed       int       `json:"listed"`
	Scanned      int       `json:"scanned"`
	Filtered     int       `json:"filtered"`
	Failed       int       `json:"failed"`
	Insufficient int       `json:"insufficient"`
	Alerts       int       `json:"alerts"`
	Error        string    `json:"error,omitempty"`
}

func newScanRunView(r recorder.ScanRun) scanRunView {
	return scanRunView{
		RunID:        r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Listed:       r.Listed,
		Scanned:      r.Scanned,
		Filtered:     r.Filtered,
		Failed:       r.Failed,
		Insufficient: r.Insufficient,
		Alerts:       r.Alerts,
		Error:        r.Error,
	}
}
