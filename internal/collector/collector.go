package collector

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"CurveSentinel/internal/calculator"
	"CurveSentinel/internal/model"
)

var log = logrus.WithField("component", "collector")

// ErrNoCandles is returned when the exchange answers with an empty kline list.
var ErrNoCandles = errors.New("no candles returned")

// MockExchange returns controllable fixed data for dry runs and testing.
type MockExchange struct {
	Symbols []string
	Prices  map[string]float64
	Bars    map[string][]model.OHLCV
}

// NewMockExchange builds a mock market with a falling, a rising, a flat and an expensive symbol.
// The falling and rising symbols lose pace towards the last bar, so they end in a bullish and a
// bearish curve divergence respectively. Last prices equal the final close.
func NewMockExchange() *MockExchange {
	now := time.Now().Truncate(15 * time.Minute)
	m := &MockExchange{
		Symbols: []string{"BEARUSDT", "BTCUSDT", "BULLUSDT", "FLATUSDT"},
		Prices:  map[string]float64{},
		Bars: map[string][]model.OHLCV{
			"BULLUSDT": generateMockBars(0.5, 100, -1, now),
			"BEARUSDT": generateMockBars(1.2, 100, 1, now),
			"FLATUSDT": generateMockBars(0.9, 100, 0, now),
			"BTCUSDT":  generateMockBars(65000, 100, 0, now),
		},
	}
	for symbol, bars := range m.Bars {
		m.Prices[symbol] = bars[len(bars)-1].Close
	}
	return m
}

func (m *MockExchange) Name() string { return "mock" }

func (m *MockExchange) ListPerpetualSymbols(_ context.Context, _ string) ([]string, error) {
	out := append([]string(nil), m.Symbols...)
	sort.Strings(out)
	return out, nil
}

func (m *MockExchange) FetchCandles(_ context.Context, symbol, _ string, limit int) ([]model.OHLCV, error) {
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, errors.Errorf("mock: unknown symbol %s", symbol)
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

func (m *MockExchange) FetchLastPrice(_ context.Context, symbol string) (float64, error) {
	p, ok := m.Prices[symbol]
	if !ok {
		return 0, errors.Errorf("mock: unknown symbol %s", symbol)
	}
	return p, nil
}

const (
	mockDrift  = 0.04  // pace still left at the last bar
	mockSwing  = 0.3   // extra pace at the first bar, fading as x^6
	mockRipple = 0.004 // ripple so RSI sees both gains and losses
)

// generateMockBars produces a trend that slows down towards the last bar: direction -1 falls,
// +1 rises, 0 stays flat.
func generateMockBars(basePrice float64, count int, direction float64, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		x := float64(i) / float64(count)
		// integral of the pace -(drift + swing*(1 - x^6))
		move := -(mockDrift+mockSwing)*x + mockSwing*math.Pow(x, 7)/7
		p := basePrice * (1 - direction*(move+mockRipple*math.Sin(2*float64(i))))
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-i) * 15 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.004,
			Low:    p * 0.996,
			Close:  p,
			Volume: 250000,
		}
	}
	return bars
}

// Snapshot is the candle history of one symbol with indicators attached.
type Snapshot struct {
	Series  *model.PriceSeries
	Records []model.IndicatorRecord
}

// Collector orchestrates candle fetching and indicator computation.
type Collector struct {
	Exchange Exchange
	Interval string
	Limit    int
	Params   calculator.IndicatorParams
}

// NewCollector creates a new Collector.
func NewCollector(ex Exchange, interval string, limit int, params calculator.IndicatorParams) *Collector {
	return &Collector{Exchange: ex, Interval: interval, Limit: limit, Params: params}
}

// LastPrice fetches the latest traded price of symbol.
func (c *Collector) LastPrice(ctx context.Context, symbol string) (float64, error) {
	price, err := c.Exchange.FetchLastPrice(ctx, symbol)
	if err != nil {
		return 0, errors.Wrap(err, "fetch last price")
	}
	return price, nil
}

// Collect fetches fresh candles for symbol and builds its indicator records.
// Nothing is cached between calls.
func (c *Collector) Collect(ctx context.Context, symbol string) (*Snapshot, error) {
	bars, err := c.Exchange.FetchCandles(ctx, symbol, c.Interval, c.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "fetch candles")
	}
	if len(bars) == 0 {
		return nil, ErrNoCandles
	}

	series := &model.PriceSeries{
		Symbol:    symbol,
		Interval:  c.Interval,
		Bars:      bars,
		FetchedAt: time.Now(),
	}
	records := calculator.BuildRecords(bars, c.Params)
	log.WithField("symbol", symbol).Debugf("collected %d candles", len(bars))
	return &Snapshot{Series: series, Records: records}, nil
}
