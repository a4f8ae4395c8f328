package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveSentinel/internal/model"
)

func makeCandles(closes ...float64) []model.OHLCV {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestMerge_TailAlignment(t *testing.T) {
	candles := makeCandles(1, 2, 3, 4, 5)
	rsi := []float64{50, 60}
	hist := []float64{0.1, 0.2, 0.3}

	records := Merge(candles, rsi, hist, 1, AlignTail)
	require.Len(t, records, 5)

	for i := 0; i < 3; i++ {
		assert.Nil(t, records[i].RSI, "rsi %d", i)
	}
	assert.Equal(t, 50.0, *records[3].RSI)
	assert.Equal(t, 60.0, *records[4].RSI)

	for i := 0; i < 2; i++ {
		assert.Nil(t, records[i].MACDHist, "macd %d", i)
	}
	assert.Equal(t, 0.1, *records[2].MACDHist)
	assert.Equal(t, 0.3, *records[4].MACDHist)

	assert.False(t, records[2].Complete())
	assert.True(t, records[3].Complete())
	assert.Equal(t, candles[4], records[4].OHLCV)
}

func TestMerge_PositionalAlignment(t *testing.T) {
	candles := makeCandles(1, 2, 3, 4)
	records := Merge(candles, []float64{50, 60}, []float64{0.1}, 1, AlignPositional)

	assert.Equal(t, 50.0, *records[0].RSI)
	assert.Equal(t, 60.0, *records[1].RSI)
	assert.Nil(t, records[2].RSI)
	assert.Equal(t, 0.1, *records[0].MACDHist)
	assert.Nil(t, records[1].MACDHist)
}

func TestMerge_ShortOrEmptyRawSeries(t *testing.T) {
	candles := makeCandles(1, 2, 3)
	for _, align := range []Alignment{AlignTail, AlignPositional} {
		assert.NotPanics(t, func() {
			records := Merge(candles, nil, nil, 5, align)
			require.Len(t, records, 3)
			for _, r := range records {
				assert.Nil(t, r.RSI)
				assert.Nil(t, r.MACDHist)
			}
		})
	}
	assert.Empty(t, Merge(nil, []float64{1}, []float64{1}, 5, AlignTail))
}

func TestMerge_RawLongerThanCandles(t *testing.T) {
	candles := makeCandles(1, 2)
	records := Merge(candles, []float64{10, 20, 30}, []float64{1, 2, 3}, 1, AlignTail)
	assert.Equal(t, 20.0, *records[0].RSI)
	assert.Equal(t, 30.0, *records[1].RSI)
	assert.Equal(t, 2.0, *records[0].MACDHist)
}

func TestMerge_NaNHistogramIsMissing(t *testing.T) {
	candles := makeCandles(1, 2, 3)
	records := Merge(candles, []float64{50, 50, 50}, []float64{math.NaN(), 0.5, 0.6}, 5, AlignTail)
	assert.Nil(t, records[0].MACDHist)
	assert.NotNil(t, records[1].MACDHist)
}

func TestMerge_SmoothsRSI(t *testing.T) {
	candles := makeCandles(1, 2, 3)
	raw := []float64{30, 60, 90}
	records := Merge(candles, raw, nil, 5, AlignTail)
	want := SmoothEMA(raw, 5)
	for i := range records {
		assert.InDelta(t, want[i], *records[i].RSI, 1e-12)
	}
}

func TestParseAlignment(t *testing.T) {
	a, err := ParseAlignment("")
	require.NoError(t, err)
	assert.Equal(t, AlignTail, a)

	a, err = ParseAlignment("positional")
	require.NoError(t, err)
	assert.Equal(t, AlignPositional, a)

	_, err = ParseAlignment("head")
	assert.Error(t, err)
}
