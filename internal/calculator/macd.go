package calculator

import "github.com/markcheno/go-talib"

// MACDLookback is the number of leading candles without a MACD histogram value.
func MACDLookback(slow, signal int) int {
	return (slow - 1) + (signal - 1)
}

// RawMACDHistogram computes the MACD histogram (MACD line minus its signal line) and drops the
// warm-up, so the result is aligned to the tail of closes. Returns nil when history is too short.
func RawMACDHistogram(closes []float64, fast, slow, signal int) []float64 {
	if fast < 2 || slow <= fast || signal < 1 {
		return nil
	}
	lookback := MACDLookback(slow, signal)
	if len(closes) <= lookback {
		return nil
	}
	_, _, hist := talib.Macd(closes, fast, slow, signal)
	return trimLookback(hist, lookback)
}
