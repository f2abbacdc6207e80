package domain

import (
	"fmt"
	"strings"
)

// MarketSymbol identifies a trading pair. Gemini addresses pairs by a
// concatenated lowercase product id ("btcusd").
type MarketSymbol struct {
	BaseAsset  string
	QuoteAsset string
}

func NewMarketSymbol(base string, quote string) (*MarketSymbol, error) {
	if base == "" || quote == "" {
		return nil, fmt.Errorf("base and quote must not be empty")
	}
	if strings.EqualFold(base, quote) {
		return nil, fmt.Errorf("base and quote must be different")
	}
	return &MarketSymbol{
		BaseAsset:  strings.ToLower(base),
		QuoteAsset: strings.ToLower(quote),
	}, nil
}

func NewMarketSymbolFromString(s string) (*MarketSymbol, error) {
	split := strings.Split(s, "_")
	if len(split) != 2 {
		return nil, fmt.Errorf("invalid symbol string %q", s)
	}
	return NewMarketSymbol(split[0], split[1])
}

// ProductID renders the symbol the way Gemini endpoints address it.
func (ms *MarketSymbol) ProductID() string {
	return ms.BaseAsset + ms.QuoteAsset
}

func (ms *MarketSymbol) String() string {
	return fmt.Sprintf("%s_%s", ms.BaseAsset, ms.QuoteAsset)
}
