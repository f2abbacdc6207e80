package domain

import (
	"fmt"
	"sync"

	"github.com/gammazero/deque"
)

// TradeRecord is one executed trade as reported by the market data feed.
type TradeRecord struct {
	EventID   int64  `json:"eventId"`
	TID       int64  `json:"tid"`
	Timestamp int64  `json:"timestamp"`
	Price     string `json:"price"`
	Amount    string `json:"amount"`
	MakerSide Side   `json:"makerSide"`
}

// Validate rejects records missing a required field. Used at the manual
// insertion boundary; decoded feed records carry all fields already.
func (r TradeRecord) Validate() error {
	if r.EventID == 0 {
		return fmt.Errorf("trade record is missing eventId")
	}
	if r.Timestamp == 0 {
		return fmt.Errorf("trade record is missing timestamp")
	}
	if r.Price == "" {
		return fmt.Errorf("trade record is missing price")
	}
	if r.Amount == "" {
		return fmt.Errorf("trade record is missing amount")
	}
	if r.MakerSide != SideBid && r.MakerSide != SideAsk {
		return fmt.Errorf("trade record has invalid maker side %q", r.MakerSide)
	}
	return nil
}

// TradeLedger is the ordered, append-only sequence of trades observed
// over the life of one connection. Safe for concurrent use.
type TradeLedger struct {
	mu      sync.Mutex
	records deque.Deque[TradeRecord]
}

func NewTradeLedger() *TradeLedger {
	return &TradeLedger{}
}

func (l *TradeLedger) Append(record TradeRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records.PushBack(record)
}

func (l *TradeLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records.Len()
}

// Records returns a copy of the ledger in arrival order.
func (l *TradeLedger) Records() []TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]TradeRecord, l.records.Len())
	for i := 0; i < l.records.Len(); i++ {
		result[i] = l.records.At(i)
	}
	return result
}
