package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spooky-finn/go-gemini-bridge/domain"
	promclient "github.com/spooky-finn/go-gemini-bridge/infrastructure/prometheus"
)

const (
	marketEventTypeTrade  = "trade"
	marketEventTypeChange = "change"
)

// MarketUpdateMessage is one frame of the public market data feed.
type MarketUpdateMessage struct {
	Type           string        `json:"type"`
	EventID        int64         `json:"eventId"`
	SocketSequence int64         `json:"socket_sequence"`
	Timestamp      int64         `json:"timestamp"`
	TimestampMs    int64         `json:"timestampms"`
	Events         []MarketEvent `json:"events"`
}

// MarketEvent is one inner event of a market data frame: a trade
// (price, amount, makerSide) or a change (price, side, remaining).
type MarketEvent struct {
	Type      string `json:"type"`
	TID       int64  `json:"tid"`
	Price     string `json:"price"`
	Amount    string `json:"amount"`
	Remaining string `json:"remaining"`
	Delta     string `json:"delta"`
	Side      string `json:"side"`
	MakerSide string `json:"makerSide"`
	Reason    string `json:"reason"`
}

// decodeMarketUpdate parses a market data frame. Failures are counted
// and returned for logging; the listen loop skips the frame and keeps
// going, matching the feed's best-effort delivery.
func decodeMarketUpdate(raw []byte) (*MarketUpdateMessage, error) {
	msg := &MarketUpdateMessage{}
	if err := json.Unmarshal(raw, msg); err != nil {
		promclient.DecodeErrorsCounter.Inc()
		return nil, fmt.Errorf("malformed market data frame: %w", err)
	}
	if msg.Type == "" {
		promclient.DecodeErrorsCounter.Inc()
		return nil, fmt.Errorf("market data frame without a type: %s", raw)
	}
	return msg, nil
}

// decodeOrderEvents parses an order events frame. The feed sends either
// a single object (subscription ack, heartbeat) or a list of
// order-lifecycle records.
func decodeOrderEvents(raw []byte) ([]domain.OrderEventRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		promclient.DecodeErrorsCounter.Inc()
		return nil, fmt.Errorf("empty order events frame")
	}

	if trimmed[0] == '[' {
		var records []domain.OrderEventRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			promclient.DecodeErrorsCounter.Inc()
			return nil, fmt.Errorf("malformed order events list: %w", err)
		}
		return records, nil
	}

	var record domain.OrderEventRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		promclient.DecodeErrorsCounter.Inc()
		return nil, fmt.Errorf("malformed order events frame: %w", err)
	}
	if record.Type == "" {
		promclient.DecodeErrorsCounter.Inc()
		return nil, fmt.Errorf("order events frame without a type: %s", trimmed)
	}
	return []domain.OrderEventRecord{record}, nil
}
