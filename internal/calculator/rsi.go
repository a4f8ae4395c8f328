package calculator

import "github.com/markcheno/go-talib"

// RawRSI computes the Wilder RSI over closes and returns only the values past the warm-up,
// so the result is aligned to the tail of closes. Returns nil when history is too short.
func RawRSI(closes []float64, period int) []float64 {
	if period < 2 || len(closes) <= period {
		return nil
	}
	series := talib.Rsi(closes, period)
	return trimLookback(series, period)
}

func trimLookback(series []float64, lookback int) []float64 {
	if lookback >= len(series) {
		return nil
	}
	out := make([]float64, len(series)-lookback)
	copy(out, series[lookback:])
	return out
}
