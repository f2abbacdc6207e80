package gemini

import (
	"fmt"

	"github.com/spooky-finn/go-gemini-bridge/domain"
)

var (
	marketDataStreams  = domain.NewRegistry[*MarketDataStream]()
	orderEventsStreams = domain.NewRegistry[*OrderEventsStream]()
)

func marketDataKey(symbol *domain.MarketSymbol, sandbox bool) string {
	return fmt.Sprintf("%s|sandbox=%t", symbol.ProductID(), sandbox)
}

func orderEventsKey(sandbox bool, filters OrderEventsFilters) string {
	return fmt.Sprintf("sandbox=%t|%s", sandbox, filters.key())
}

// StartMarketDataStream constructs and starts the market data stream
// for (symbol, sandbox), or returns the live one if a caller already
// holds it. One logical book per (symbol, sandbox).
func StartMarketDataStream(symbol *domain.MarketSymbol, sandbox bool) (*MarketDataStream, error) {
	return marketDataStreams.GetOrCreate(marketDataKey(symbol, sandbox), func() (*MarketDataStream, error) {
		stream := NewMarketDataStream(symbol, sandbox)
		if err := stream.Start(); err != nil {
			return nil, err
		}
		return stream, nil
	})
}

// ReleaseMarketDataStream forgets the registry entry so the next
// StartMarketDataStream constructs a fresh connection. The caller is
// responsible for closing the released stream.
func ReleaseMarketDataStream(symbol *domain.MarketSymbol, sandbox bool) {
	marketDataStreams.Release(marketDataKey(symbol, sandbox))
}

// StartOrderEventsStream is the construct-or-fetch counterpart for the
// private feed, keyed by sandbox flag and filter set.
func StartOrderEventsStream(apiKey, apiSecret string, sandbox bool, filters OrderEventsFilters) (*OrderEventsStream, error) {
	return orderEventsStreams.GetOrCreate(orderEventsKey(sandbox, filters), func() (*OrderEventsStream, error) {
		stream, err := NewOrderEventsStream(apiKey, apiSecret, sandbox, filters)
		if err != nil {
			return nil, err
		}
		if err := stream.Start(); err != nil {
			return nil, err
		}
		return stream, nil
	})
}

func ReleaseOrderEventsStream(sandbox bool, filters OrderEventsFilters) {
	orderEventsStreams.Release(orderEventsKey(sandbox, filters))
}
