package domain

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrEmptyBookSide = errors.New("book side is empty")

type priceLevel struct {
	price     decimal.Decimal
	remaining decimal.Decimal
}

// PriceLevel is one entry of a depth book side.
type PriceLevel struct {
	Price     decimal.Decimal
	Remaining decimal.Decimal
}

// DepthSnapshot is a point-in-time copy of both book sides, asks sorted
// ascending and bids descending, serialized as [price, remaining] pairs.
type DepthSnapshot struct {
	Asks [][]string `json:"asks"`
	Bids [][]string `json:"bids"`
}

// DepthBook keeps the remaining open quantity per price level for one
// market. Levels are keyed by the wire price string, so keys never drift
// through a binary float round-trip. Safe for concurrent use: the feed
// worker applies changes while callers query.
type DepthBook struct {
	mu   sync.Mutex
	asks map[string]priceLevel
	bids map[string]priceLevel
}

func NewDepthBook() *DepthBook {
	return &DepthBook{
		asks: make(map[string]priceLevel),
		bids: make(map[string]priceLevel),
	}
}

// ApplyChange upserts the remaining quantity at a price level,
// overwriting any previous value at that price. A remaining of zero
// removes the level; removing an absent level is a no-op.
func (b *DepthBook) ApplyChange(side Side, price string, remaining decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	levels, err := b.side(side)
	if err != nil {
		return err
	}

	if remaining.IsZero() {
		delete(levels, price)
		return nil
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("malformed price %q: %w", price, err)
	}

	levels[price] = priceLevel{price: parsed, remaining: remaining}
	return nil
}

// BestBid returns the highest-priced bid level.
func (b *DepthBook) BestBid() (PriceLevel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bestLevel(b.bids, func(candidate, best decimal.Decimal) bool {
		return candidate.GreaterThan(best)
	})
}

// BestAsk returns the lowest-priced ask level.
func (b *DepthBook) BestAsk() (PriceLevel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bestLevel(b.asks, func(candidate, best decimal.Decimal) bool {
		return candidate.LessThan(best)
	})
}

func (b *DepthBook) Depth(side Side) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	levels, err := b.side(side)
	if err != nil {
		return 0
	}
	return len(levels)
}

// Reset replaces both sides with empty containers. Idempotent.
func (b *DepthBook) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.asks = make(map[string]priceLevel)
	b.bids = make(map[string]priceLevel)
}

// Snapshot copies both sides into sorted serialized form. A limit > 0
// truncates each side to its top levels.
func (b *DepthBook) Snapshot(limit int) *DepthSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	asks := serializeLevels(b.asks, func(i, j priceLevel) bool {
		return i.price.LessThan(j.price)
	})
	bids := serializeLevels(b.bids, func(i, j priceLevel) bool {
		return i.price.GreaterThan(j.price)
	})

	return &DepthSnapshot{
		Asks: limitDepth(asks, limit),
		Bids: limitDepth(bids, limit),
	}
}

func (b *DepthBook) side(side Side) (map[string]priceLevel, error) {
	switch side {
	case SideAsk:
		return b.asks, nil
	case SideBid:
		return b.bids, nil
	}
	return nil, fmt.Errorf("unknown side %q", side)
}

func bestLevel(levels map[string]priceLevel, better func(candidate, best decimal.Decimal) bool) (PriceLevel, error) {
	if len(levels) == 0 {
		return PriceLevel{}, ErrEmptyBookSide
	}

	var best priceLevel
	found := false
	for _, level := range levels {
		if !found || better(level.price, best.price) {
			best = level
			found = true
		}
	}

	return PriceLevel{Price: best.price, Remaining: best.remaining}, nil
}

func serializeLevels(levels map[string]priceLevel, less func(i, j priceLevel) bool) [][]string {
	type entry struct {
		raw   string
		level priceLevel
	}

	entries := make([]entry, 0, len(levels))
	for raw, level := range levels {
		entries = append(entries, entry{raw: raw, level: level})
	}
	sort.Slice(entries, func(i, j int) bool {
		return less(entries[i].level, entries[j].level)
	})

	result := make([][]string, len(entries))
	for i, e := range entries {
		result[i] = []string{e.raw, e.level.remaining.String()}
	}
	return result
}

func limitDepth(depth [][]string, limit int) [][]string {
	if limit > 0 && len(depth) > limit {
		return depth[:limit]
	}
	return depth
}
