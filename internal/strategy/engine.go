package strategy

import (
	"math"

	"CurveSentinel/internal/calculator"
	"CurveSentinel/internal/model"
)

// Params controls the trailing window and the noise threshold of the classifier.
type Params struct {
	Window         int
	SlopeThreshold float64
}

// DefaultParams returns a 15-candle window and a 0.0001 slope threshold.
func DefaultParams() Params {
	return Params{Window: 15, SlopeThreshold: 0.0001}
}

// Evaluation is the classifier verdict together with the slopes that produced it.
type Evaluation struct {
	Divergence model.Divergence
	PriceSlope float64
	RSISlope   float64
	MACDSlope  float64
	// Usable counts the records that carry both indicators.
	Usable int
	// Sufficient is false when fewer than Window usable records were available.
	Sufficient bool
}

// Classify returns the curve divergence for the last window of complete records.
func Classify(records []model.IndicatorRecord, window int, slopeThreshold float64) model.Divergence {
	return Analyze(records, Params{Window: window, SlopeThreshold: slopeThreshold}).Divergence
}

// Analyze windows the complete records, regresses close, RSI and MACD histogram against their
// index and applies the divergence rule. Insufficient data always yields DivergenceNone.
func Analyze(records []model.IndicatorRecord, p Params) Evaluation {
	complete := make([]model.IndicatorRecord, 0, len(records))
	for _, r := range records {
		if r.Complete() {
			complete = append(complete, r)
		}
	}

	eval := Evaluation{
		Divergence: model.DivergenceNone,
		PriceSlope: math.NaN(),
		RSISlope:   math.NaN(),
		MACDSlope:  math.NaN(),
		Usable:     len(complete),
	}
	if p.Window < 2 || len(complete) < p.Window {
		return eval
	}
	eval.Sufficient = true

	recent := complete[len(complete)-p.Window:]
	closes := make([]float64, len(recent))
	rsis := make([]float64, len(recent))
	hists := make([]float64, len(recent))
	for i, r := range recent {
		closes[i] = r.Close
		rsis[i] = *r.RSI
		hists[i] = *r.MACDHist
	}

	eval.PriceSlope = calculator.Slope(closes)
	eval.RSISlope = calculator.Slope(rsis)
	eval.MACDSlope = calculator.Slope(hists)
	eval.Divergence = classifySlopes(eval.PriceSlope, eval.RSISlope, eval.MACDSlope, p.SlopeThreshold)
	return eval
}

// classifySlopes applies the threshold to price and RSI only; MACD needs just the right sign.
func classifySlopes(price, rsi, macd, t float64) model.Divergence {
	switch {
	case price < -t && rsi > t && macd > 0:
		return model.BullishCurve
	case price > t && rsi < -t && macd < 0:
		return model.BearishCurve
	default:
		return model.DivergenceNone
	}
}
