package collector

import (
	"context"

	"CurveSentinel/internal/model"
)

//go:generate mockgen -destination=mocks/mock_exchange.go -package=mocks . Exchange

// Exchange is the market data client used by the scanner. Implementations are constructed
// explicitly and handed to the components that need them.
type Exchange interface {
	Name() string
	// ListPerpetualSymbols returns the tradable perpetual contracts quoted in quoteAsset.
	ListPerpetualSymbols(ctx context.Context, quoteAsset string) ([]string, error)
	// FetchCandles returns up to limit candles in chronological order.
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error)
	FetchLastPrice(ctx context.Context, symbol string) (float64, error)
}
