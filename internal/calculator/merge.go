package calculator

import (
	"fmt"
	"math"

	"CurveSentinel/internal/model"
)

// Alignment selects how raw indicator output is mapped back onto candle indices.
type Alignment string

const (
	// AlignTail maps the last raw value onto the last candle, so every indicator keeps
	// its own warm-up gap at the head of the series.
	AlignTail Alignment = "tail"
	// AlignPositional zips raw values onto candles from index 0. It ignores warm-up
	// offsets and is kept for parity with the legacy scanner.
	AlignPositional Alignment = "positional"
)

// ParseAlignment converts a config string into an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case AlignTail, "":
		return AlignTail, nil
	case AlignPositional:
		return AlignPositional, nil
	default:
		return "", fmt.Errorf("unknown alignment %q", s)
	}
}

// IndicatorParams holds the periods used to derive indicator records from candles.
type IndicatorParams struct {
	RSIPeriod     int
	MACDFast      int
	MACDSlow      int
	MACDSignal    int
	SmoothingSpan int
	Alignment     Alignment
}

// DefaultIndicatorParams returns RSI(14), MACD(12,26,9) and an EMA span of 5.
func DefaultIndicatorParams() IndicatorParams {
	return IndicatorParams{
		RSIPeriod:     14,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		SmoothingSpan: 5,
		Alignment:     AlignTail,
	}
}

// Merge attaches the EMA-smoothed RSI and the MACD histogram to each candle.
// Raw series are tail-aligned with no warm-up padding; NaN in rawMACDHist stands for a missing value.
// The result always has one record per candle.
func Merge(candles []model.OHLCV, rawRSI, rawMACDHist []float64, span int, align Alignment) []model.IndicatorRecord {
	records := make([]model.IndicatorRecord, len(candles))
	for i, c := range candles {
		records[i].OHLCV = c
	}

	smoothed := SmoothEMA(rawRSI, span)

	rsiOffset := offsetFor(len(candles), len(smoothed), align)
	for j, v := range smoothed {
		idx := rsiOffset + j
		if idx < 0 || idx >= len(records) || math.IsNaN(v) {
			continue
		}
		val := v
		records[idx].RSI = &val
	}

	macdOffset := offsetFor(len(candles), len(rawMACDHist), align)
	for j, v := range rawMACDHist {
		idx := macdOffset + j
		if idx < 0 || idx >= len(records) || math.IsNaN(v) {
			continue
		}
		val := v
		records[idx].MACDHist = &val
	}

	return records
}

func offsetFor(candles, raw int, align Alignment) int {
	if align == AlignPositional {
		return 0
	}
	return candles - raw
}

// BuildRecords runs the RSI and MACD primitives over the candle closes and merges the results.
func BuildRecords(candles []model.OHLCV, p IndicatorParams) []model.IndicatorRecord {
	closes := extractCloses(candles)
	rsi := RawRSI(closes, p.RSIPeriod)
	hist := RawMACDHistogram(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	return Merge(candles, rsi, hist, p.SmoothingSpan, p.Alignment)
}
