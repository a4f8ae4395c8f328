package main

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"CurveSentinel/internal/model"
	"CurveSentinel/internal/scheduler"
	"CurveSentinel/internal/strategy"
)

func TestRenderCheck(t *testing.T) {
	out := renderCheck(&scheduler.CheckResult{
		Symbol: "DOGEUSDT", Interval: "15m", Price: 0.0815, Volume: 180000, Candles: 100,
		Evaluation: strategy.Evaluation{
			Divergence: model.BullishCurve, PriceSlope: -0.0003, RSISlope: 0.4, MACDSlope: 0.00001,
			Usable: 67, Sufficient: true,
		},
		Alert: true,
	})
	assert.Contains(t, out, "DOGEUSDT 15m")
	assert.Contains(t, out, "BULLISH_CURVE")
	assert.Contains(t, out, "-0.000300")
	assert.NotContains(t, out, "not enough")

	out = renderCheck(&scheduler.CheckResult{
		Symbol: "NEWUSDT", Interval: "15m",
		Evaluation: strategy.Evaluation{Divergence: model.DivergenceNone, PriceSlope: math.NaN()},
	})
	assert.Contains(t, out, "not enough complete records")
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	assert.NoError(t, setupLogging("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	assert.NoError(t, setupLogging("warn", "text"))
	assert.Error(t, setupLogging("loud", "text"))
	assert.Error(t, setupLogging("info", "xml"))
}
