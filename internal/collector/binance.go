package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"CurveSentinel/internal/metrics"
	"CurveSentinel/internal/model"
)

// BinanceConfig describes how to reach the USDT-M futures REST API.
type BinanceConfig struct {
	APIKey            string
	APISecret         string
	BaseURL           string
	Proxy             string
	RequestsPerMinute int
	Timeout           time.Duration
}

func (c BinanceConfig) withDefaults() BinanceConfig {
	out := c
	if out.RequestsPerMinute <= 0 {
		out.RequestsPerMinute = 1200
	}
	if out.Timeout <= 0 {
		out.Timeout = 15 * time.Second
	}
	return out
}

// BinanceExchange implements Exchange on top of the go-binance futures client.
type BinanceExchange struct {
	Client  *futures.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewBinanceExchange creates a futures client. Credentials are passed through untouched and
// are not required for the public market data endpoints.
func NewBinanceExchange(cfg BinanceConfig) *BinanceExchange {
	cfg = cfg.withDefaults()

	client := futures.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.BaseURL != "" {
		client.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.WithError(err).Warnf("ignoring invalid proxy url %q", cfg.Proxy)
		}
	}
	client.HTTPClient = &http.Client{Timeout: cfg.Timeout, Transport: transport}

	perRequest := time.Minute / time.Duration(cfg.RequestsPerMinute)
	return &BinanceExchange{
		Client:  client,
		limiter: rate.NewLimiter(rate.Every(perRequest), 10),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "binance-futures",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				// an API error means the exchange answered; only transport failures count
				var apiErr *common.APIError
				return err == nil || errors.As(err, &apiErr)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnf("circuit breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

func (e *BinanceExchange) Name() string { return "binance" }

// call waits for a rate limit token and runs fn through the circuit breaker.
func (e *BinanceExchange) call(ctx context.Context, endpoint string, fn func() (interface{}, error)) (interface{}, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	res, err := e.breaker.Execute(fn)
	metrics.ObserveRequest(e.Name(), endpoint, err)
	return res, err
}

func (e *BinanceExchange) ListPerpetualSymbols(ctx context.Context, quoteAsset string) ([]string, error) {
	res, err := e.call(ctx, "exchange_info", func() (interface{}, error) {
		return e.Client.NewExchangeInfoService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "query exchange info")
	}
	info := res.(*futures.ExchangeInfo)

	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if !isActivePerpetual(s, quoteAsset) {
			continue
		}
		symbols = append(symbols, s.Symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func isActivePerpetual(s futures.Symbol, quoteAsset string) bool {
	if s.ContractType != futures.ContractTypePerpetual || s.Status != "TRADING" {
		return false
	}
	return quoteAsset == "" || strings.EqualFold(s.QuoteAsset, quoteAsset)
}

func (e *BinanceExchange) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	res, err := e.call(ctx, "klines", func() (interface{}, error) {
		return e.Client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			Limit(limit).
			Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "query klines %s %s", symbol, interval)
	}
	klines := res.([]*futures.Kline)

	bars := make([]model.OHLCV, 0, len(klines))
	for _, k := range klines {
		bar, err := toOHLCV(k)
		if err != nil {
			return nil, errors.Wrapf(err, "convert kline %s@%d", symbol, k.OpenTime)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func toOHLCV(k *futures.Kline) (model.OHLCV, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.OHLCV{}, err
		}
		values[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(k.OpenTime),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

func (e *BinanceExchange) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	res, err := e.call(ctx, "ticker_price", func() (interface{}, error) {
		return e.Client.NewListPricesService().Symbol(symbol).Do(ctx)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "query price %s", symbol)
	}
	for _, p := range res.([]*futures.SymbolPrice) {
		if p.Symbol != symbol {
			continue
		}
		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parse price %q", p.Price)
		}
		return price, nil
	}
	return 0, errors.Errorf("no price returned for %s", symbol)
}
