package domain

import (
	"errors"
	"fmt"
	"sync"
)

var ErrPriceNotFound = errors.New("no order at the given price")

// MarketBookSnapshot pairs the per-price fill lists of both sides.
type MarketBookSnapshot struct {
	Asks map[string][]TradeRecord `json:"asks"`
	Bids map[string][]TradeRecord `json:"bids"`
}

// FillBook groups trade records by their wire price string, one list
// per side. Unlike the depth book's change path, insertion appends: a
// second record at a price is another fill there, not new
// remaining-quantity state. Safe for concurrent use.
type FillBook struct {
	mu   sync.Mutex
	asks map[string][]TradeRecord
	bids map[string][]TradeRecord
}

func NewFillBook() *FillBook {
	return &FillBook{
		asks: make(map[string][]TradeRecord),
		bids: make(map[string][]TradeRecord),
	}
}

func (b *FillBook) AddToBids(price string, record TradeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return add(b.bids, price, record)
}

func (b *FillBook) AddToAsks(price string, record TradeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return add(b.asks, price, record)
}

// RemoveFromBids deletes the whole entry at a price.
func (b *FillBook) RemoveFromBids(price string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return remove(b.bids, price)
}

func (b *FillBook) RemoveFromAsks(price string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return remove(b.asks, price)
}

// SearchPrice returns every record at a price, ask records first, then
// bid records. A price on neither side yields an empty result, not an
// error.
func (b *FillBook) SearchPrice(price string) []TradeRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := []TradeRecord{}
	result = append(result, b.asks[price]...)
	result = append(result, b.bids[price]...)
	return result
}

// MarketBook copies both sides into a snapshot.
func (b *FillBook) MarketBook() *MarketBookSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &MarketBookSnapshot{
		Asks: copySide(b.asks),
		Bids: copySide(b.bids),
	}
}

// Reset replaces both sides with empty containers. Idempotent.
func (b *FillBook) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.asks = make(map[string][]TradeRecord)
	b.bids = make(map[string][]TradeRecord)
}

func add(side map[string][]TradeRecord, price string, record TradeRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("rejected manual insertion: %w", err)
	}
	side[price] = append(side[price], record)
	return nil
}

func remove(side map[string][]TradeRecord, price string) error {
	if _, ok := side[price]; !ok {
		return fmt.Errorf("%w: %s", ErrPriceNotFound, price)
	}
	delete(side, price)
	return nil
}

func copySide(side map[string][]TradeRecord) map[string][]TradeRecord {
	result := make(map[string][]TradeRecord, len(side))
	for price, records := range side {
		copied := make([]TradeRecord, len(records))
		copy(copied, records)
		result[price] = copied
	}
	return result
}
