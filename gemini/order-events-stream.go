package gemini

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spooky-finn/go-gemini-bridge/domain"
)

const orderEventsRequest = "/v1/order/events"

// OrderEventsFilters narrow the private feed server-side. Empty slices
// mean no filtering on that dimension.
type OrderEventsFilters struct {
	Symbols     []string
	EventTypes  []string
	APISessions []string
}

func (f OrderEventsFilters) query() string {
	values := url.Values{}
	for _, symbol := range f.Symbols {
		values.Add("symbolFilter", symbol)
	}
	for _, eventType := range f.EventTypes {
		values.Add("eventTypeFilter", eventType)
	}
	for _, session := range f.APISessions {
		values.Add("apiSessionFilter", session)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// key renders the filters canonically for registry deduplication.
func (f OrderEventsFilters) key() string {
	parts := make([]string, 0, 3)
	for _, group := range [][]string{f.Symbols, f.EventTypes, f.APISessions} {
		sorted := append([]string(nil), group...)
		sort.Strings(sorted)
		parts = append(parts, strings.Join(sorted, ","))
	}
	return strings.Join(parts, "|")
}

// OrderEventsStream maintains the order event book from Gemini's
// private order events feed. The book is mutated on the stream's
// listen worker and synchronizes its own state, so callers may query
// while the feed is live.
type OrderEventsStream struct {
	sandbox bool
	filters OrderEventsFilters

	signer *Signer
	client *StreamClient
	book   *domain.OrderEventBook

	// OnStreamError receives transport errors and routing errors for
	// records whose type is outside the closed category set. Optional.
	OnStreamError func(err error)
}

func NewOrderEventsStream(apiKey, apiSecret string, sandbox bool, filters OrderEventsFilters) (*OrderEventsStream, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("order events feed requires api key and secret")
	}

	s := &OrderEventsStream{
		sandbox: sandbox,
		filters: filters,
		signer:  NewSigner(apiKey, apiSecret),
		book:    domain.NewOrderEventBook(),
	}

	header, err := s.signer.Headers(orderEventsRequest, nil)
	if err != nil {
		return nil, fmt.Errorf("sign order events subscription: %w", err)
	}

	url := wsBaseURL(sandbox) + orderEventsRequest + filters.query()
	s.client = NewStreamClient(url, header, StreamCallbacks{
		OnMessage: s.onMessage,
		OnError:   s.onStreamError,
		OnClose: func() {
			logger.Printf("order events stream ended")
		},
	})
	return s, nil
}

// Start begins connecting and listening in the background.
func (s *OrderEventsStream) Start() error {
	return s.client.Start()
}

// Close stops the listen worker and waits for it to exit.
func (s *OrderEventsStream) Close() error {
	return s.client.Close()
}

func (s *OrderEventsStream) State() StreamState {
	return s.client.State()
}

func (s *OrderEventsStream) onMessage(raw []byte) {
	records, err := decodeOrderEvents(raw)
	if err != nil {
		logger.Printf("skipping frame: %s", err)
		return
	}

	for _, record := range records {
		if err := s.book.Append(record); err != nil {
			// The category set is closed and known; an unrecognized
			// type is reported, not silently dropped.
			s.onStreamError(fmt.Errorf("route order event: %w", err))
		}
	}
}

func (s *OrderEventsStream) onStreamError(err error) {
	if s.OnStreamError != nil {
		s.OnStreamError(err)
	}
}

// GetOrderBook copies every category bucket.
func (s *OrderEventsStream) GetOrderBook() map[domain.OrderEventCategory][]domain.OrderEventRecord {
	return s.book.Snapshot()
}

// Category returns a copy of one bucket; unknown categories are a
// usage error.
func (s *OrderEventsStream) Category(category domain.OrderEventCategory) ([]domain.OrderEventRecord, error) {
	return s.book.Category(category)
}

// RemoveOrder deletes the most recent record with the given order id
// from a category bucket.
func (s *OrderEventsStream) RemoveOrder(category domain.OrderEventCategory, orderID string) error {
	return s.book.RemoveOrder(category, orderID)
}

// ResetOrderBook empties all category buckets, keeping every key.
func (s *OrderEventsStream) ResetOrderBook() {
	s.book.Reset()
}
