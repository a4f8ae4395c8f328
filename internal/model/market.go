package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IndicatorRecord is a candle extended with its smoothed RSI and MACD histogram.
// Nil fields mark the warm-up period where the indicator has no value yet.
type IndicatorRecord struct {
	OHLCV
	RSI      *float64
	MACDHist *float64
}

// Complete reports whether both indicator values are present.
func (r IndicatorRecord) Complete() bool {
	return r.RSI != nil && r.MACDHist != nil
}

// PriceSeries holds the candles fetched for one symbol during a scan.
type PriceSeries struct {
	Symbol    string
	Interval  string
	Bars      []OHLCV
	FetchedAt time.Time
}

// LatestVolume returns the volume of the most recent bar, or 0 when empty.
func (p *PriceSeries) LatestVolume() float64 {
	if len(p.Bars) == 0 {
		return 0
	}
	return p.Bars[len(p.Bars)-1].Volume
}
