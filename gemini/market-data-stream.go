package gemini

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spooky-finn/go-gemini-bridge/config"
	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/spooky-finn/go-gemini-bridge/helpers"
	promclient "github.com/spooky-finn/go-gemini-bridge/infrastructure/prometheus"
)

// MarketDataStream maintains the local view of one market from Gemini's
// public market data feed: a depth book of price levels, the append-only
// trade ledger and the per-price fill book.
//
// All three are mutated on the stream's listen worker; each container
// synchronizes its own state, so callers may query while the feed is
// live.
type MarketDataStream struct {
	Symbol  *domain.MarketSymbol
	sandbox bool

	client *StreamClient
	depth  *domain.DepthBook
	ledger *domain.TradeLedger
	fills  *domain.FillBook

	// OnStreamError receives transport errors, which are terminal to
	// the connection. Optional.
	OnStreamError func(err error)
}

func NewMarketDataStream(symbol *domain.MarketSymbol, sandbox bool) *MarketDataStream {
	s := &MarketDataStream{
		Symbol:  symbol,
		sandbox: sandbox,
		depth:   domain.NewDepthBook(),
		ledger:  domain.NewTradeLedger(),
		fills:   domain.NewFillBook(),
	}

	url := fmt.Sprintf("%s/v1/marketdata/%s", wsBaseURL(sandbox), symbol.ProductID())
	s.client = NewStreamClient(url, nil, StreamCallbacks{
		OnMessage: s.onMessage,
		OnError:   s.onStreamError,
		OnClose: func() {
			logger.Printf("market data stream for %s ended", symbol)
		},
	})
	return s
}

// Start begins connecting and listening in the background.
func (s *MarketDataStream) Start() error {
	return s.client.Start()
}

// Close stops the listen worker and waits for it to exit.
func (s *MarketDataStream) Close() error {
	return s.client.Close()
}

func (s *MarketDataStream) State() StreamState {
	return s.client.State()
}

func (s *MarketDataStream) onMessage(raw []byte) {
	msg, err := decodeMarketUpdate(raw)
	if err != nil {
		logger.Printf("skipping frame: %s", err)
		return
	}
	s.apply(msg)
}

// apply folds one frame into the local books. The 0th frame is the
// feed's snapshot-equivalent bootstrap and is skipped by convention.
func (s *MarketDataStream) apply(msg *MarketUpdateMessage) {
	if msg.SocketSequence < 1 {
		promclient.BootstrapFramesCounter.Inc()
		return
	}

	if config.DebugMode {
		logger.Printf("frame seq=%d %s", msg.SocketSequence, helpers.ToJsonString(msg.Events))
	}

	for _, event := range msg.Events {
		switch event.Type {
		case marketEventTypeChange:
			s.applyChange(event)
		case marketEventTypeTrade:
			s.applyTrade(msg, event)
		}
	}
}

func (s *MarketDataStream) applyChange(event MarketEvent) {
	side, err := domain.ParseSide(event.Side)
	if err != nil {
		s.skipEvent(event, err)
		return
	}

	remaining, err := decimal.NewFromString(event.Remaining)
	if err != nil {
		s.skipEvent(event, fmt.Errorf("malformed remaining: %w", err))
		return
	}
	if remaining.IsNegative() {
		s.skipEvent(event, fmt.Errorf("negative remaining %s", event.Remaining))
		return
	}

	if err := s.depth.ApplyChange(side, event.Price, remaining); err != nil {
		s.skipEvent(event, err)
	}
}

func (s *MarketDataStream) applyTrade(msg *MarketUpdateMessage, event MarketEvent) {
	side, err := domain.ParseSide(event.MakerSide)
	if err != nil {
		s.skipEvent(event, err)
		return
	}

	record := domain.TradeRecord{
		EventID:   msg.EventID,
		TID:       event.TID,
		Timestamp: msg.Timestamp,
		Price:     event.Price,
		Amount:    event.Amount,
		MakerSide: side,
	}

	s.ledger.Append(record)

	if side == domain.SideBid {
		err = s.fills.AddToBids(event.Price, record)
	} else {
		err = s.fills.AddToAsks(event.Price, record)
	}
	if err != nil {
		s.skipEvent(event, err)
	}
}

func (s *MarketDataStream) skipEvent(event MarketEvent, err error) {
	promclient.DecodeErrorsCounter.Inc()
	logger.Printf("skipping %s event: %s", event.Type, err)
}

func (s *MarketDataStream) onStreamError(err error) {
	if s.OnStreamError != nil {
		s.OnStreamError(err)
	}
}

// BestBid returns the highest bid level of the depth book.
func (s *MarketDataStream) BestBid() (domain.PriceLevel, error) {
	return s.depth.BestBid()
}

// BestAsk returns the lowest ask level of the depth book.
func (s *MarketDataStream) BestAsk() (domain.PriceLevel, error) {
	return s.depth.BestAsk()
}

// DepthSnapshot copies the depth book, top levels first. A limit > 0
// truncates each side.
func (s *MarketDataStream) DepthSnapshot(limit int) *domain.DepthSnapshot {
	return s.depth.Snapshot(limit)
}

// GetMarketBook copies the per-price fill lists of both sides.
func (s *MarketDataStream) GetMarketBook() *domain.MarketBookSnapshot {
	return s.fills.MarketBook()
}

// Trades returns a copy of the trade ledger in arrival order.
func (s *MarketDataStream) Trades() []domain.TradeRecord {
	return s.ledger.Records()
}

func (s *MarketDataStream) TradeCount() int {
	return s.ledger.Len()
}

// AddToBids manually records another fill at a price. Unlike the
// change-event path this appends.
func (s *MarketDataStream) AddToBids(price string, record domain.TradeRecord) error {
	return s.fills.AddToBids(price, record)
}

func (s *MarketDataStream) AddToAsks(price string, record domain.TradeRecord) error {
	return s.fills.AddToAsks(price, record)
}

func (s *MarketDataStream) RemoveFromBids(price string) error {
	return s.fills.RemoveFromBids(price)
}

func (s *MarketDataStream) RemoveFromAsks(price string) error {
	return s.fills.RemoveFromAsks(price)
}

func (s *MarketDataStream) SearchPrice(price string) []domain.TradeRecord {
	return s.fills.SearchPrice(price)
}

// ResetMarketBook replaces the depth book and the fill book with empty
// containers. The trade ledger is append-only for the life of the
// connection and stays.
func (s *MarketDataStream) ResetMarketBook() {
	s.depth.Reset()
	s.fills.Reset()
}
