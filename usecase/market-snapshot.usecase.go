package usecase

import (
	"log"

	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/spooky-finn/go-gemini-bridge/gemini"
)

var logger = log.New(log.Writer(), "[market-snapshot] ", log.LstdFlags)

// MarketSnapshotUseCase serves local depth snapshots, starting a market
// data stream the first time a symbol is requested and reusing the
// registry-held stream afterwards.
type MarketSnapshotUseCase struct {
	sandbox bool
}

func NewMarketSnapshotUseCase(sandbox bool) *MarketSnapshotUseCase {
	return &MarketSnapshotUseCase{sandbox: sandbox}
}

// GetDepthSnapshot returns the locally maintained book for the symbol,
// top levels first, truncated to limit when limit > 0. A fresh stream
// starts empty; it fills as sequenced frames arrive.
func (u *MarketSnapshotUseCase) GetDepthSnapshot(symbol *domain.MarketSymbol, limit int) (*domain.DepthSnapshot, error) {
	stream, err := gemini.StartMarketDataStream(symbol, u.sandbox)
	if err != nil {
		return nil, err
	}

	logger.Printf("taking snapshot of %s", symbol)
	return stream.DepthSnapshot(limit), nil
}

// GetSpread returns the current best bid and ask of the local book.
func (u *MarketSnapshotUseCase) GetSpread(symbol *domain.MarketSymbol) (bid, ask domain.PriceLevel, err error) {
	stream, err := gemini.StartMarketDataStream(symbol, u.sandbox)
	if err != nil {
		return domain.PriceLevel{}, domain.PriceLevel{}, err
	}

	bid, err = stream.BestBid()
	if err != nil {
		return domain.PriceLevel{}, domain.PriceLevel{}, err
	}
	ask, err = stream.BestAsk()
	if err != nil {
		return domain.PriceLevel{}, domain.PriceLevel{}, err
	}
	return bid, ask, nil
}
