package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
)

// OrderEventCategory is one of the fixed lifecycle states the private
// order events feed reports an order in.
type OrderEventCategory string

const (
	OrderEventSubscriptionAck OrderEventCategory = "subscription_ack"
	OrderEventHeartbeat       OrderEventCategory = "heartbeat"
	OrderEventInitial         OrderEventCategory = "initial"
	OrderEventAccepted        OrderEventCategory = "accepted"
	OrderEventRejected        OrderEventCategory = "rejected"
	OrderEventBooked          OrderEventCategory = "booked"
	OrderEventFill            OrderEventCategory = "fill"
	OrderEventCancelled       OrderEventCategory = "cancelled"
	OrderEventCancelRejected  OrderEventCategory = "cancel_rejected"
	OrderEventClosed          OrderEventCategory = "closed"
)

// OrderEventCategories lists every category in feed order.
func OrderEventCategories() []OrderEventCategory {
	return []OrderEventCategory{
		OrderEventSubscriptionAck,
		OrderEventHeartbeat,
		OrderEventInitial,
		OrderEventAccepted,
		OrderEventRejected,
		OrderEventBooked,
		OrderEventFill,
		OrderEventCancelled,
		OrderEventCancelRejected,
		OrderEventClosed,
	}
}

var (
	ErrUnknownCategory = errors.New("unknown order event category")
	ErrOrderNotFound   = errors.New("order not found")
)

// OrderEventRecord is one message from the order events feed. Ack and
// heartbeat records only carry a subset of the fields.
type OrderEventRecord struct {
	Type              OrderEventCategory `json:"type"`
	OrderID           string             `json:"order_id"`
	EventID           int64              `json:"event_id"`
	APISession        string             `json:"api_session"`
	ClientOrderID     string             `json:"client_order_id"`
	Symbol            string             `json:"symbol"`
	Side              string             `json:"side"`
	Behavior          string             `json:"behavior"`
	OrderType         string             `json:"order_type"`
	Timestamp         string             `json:"timestamp"`
	TimestampMs       int64              `json:"timestampms"`
	IsLive            bool               `json:"is_live"`
	IsCancelled       bool               `json:"is_cancelled"`
	IsHidden          bool               `json:"is_hidden"`
	AvgExecutionPrice string             `json:"avg_execution_price"`
	ExecutedAmount    string             `json:"executed_amount"`
	RemainingAmount   string             `json:"remaining_amount"`
	OriginalAmount    string             `json:"original_amount"`
	Price             string             `json:"price"`
	TotalSpend        string             `json:"total_spend"`
	SocketSequence    int64              `json:"socket_sequence"`
}

// OrderEventBook buckets order event records by lifecycle category.
// Every category key exists for the life of the book, empty or not, so
// an unknown category on lookup is a usage error rather than a silent
// empty result. Safe for concurrent use.
type OrderEventBook struct {
	mu      sync.Mutex
	buckets map[OrderEventCategory]*deque.Deque[OrderEventRecord]
}

func NewOrderEventBook() *OrderEventBook {
	book := &OrderEventBook{}
	book.Reset()
	return book
}

// Append routes a record into the bucket its type names. The category
// set is closed, so an unrecognized type is reported, not dropped.
func (b *OrderEventBook) Append(record OrderEventRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	bucket, ok := b.buckets[record.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, record.Type)
	}
	bucket.PushBack(record)
	return nil
}

// Category returns a copy of one bucket in arrival order.
func (b *OrderEventBook) Category(category OrderEventCategory) ([]OrderEventRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.category(category)
}

func (b *OrderEventBook) category(category OrderEventCategory) ([]OrderEventRecord, error) {
	bucket, ok := b.buckets[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	result := make([]OrderEventRecord, bucket.Len())
	for i := 0; i < bucket.Len(); i++ {
		result[i] = bucket.At(i)
	}
	return result, nil
}

func (b *OrderEventBook) Len(category OrderEventCategory) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bucket, ok := b.buckets[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return bucket.Len(), nil
}

// RemoveOrder deletes the most recent record in a category carrying the
// given order id. Missing ids are a reported, non-fatal error.
func (b *OrderEventBook) RemoveOrder(category OrderEventCategory, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	bucket, ok := b.buckets[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	index := bucket.RIndex(func(record OrderEventRecord) bool {
		return record.OrderID == orderID
	})
	if index < 0 {
		return fmt.Errorf("%w: order_id=%s in %q", ErrOrderNotFound, orderID, category)
	}

	bucket.Remove(index)
	return nil
}

// Snapshot copies every bucket, keyed by category.
func (b *OrderEventBook) Snapshot() map[OrderEventCategory][]OrderEventRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make(map[OrderEventCategory][]OrderEventRecord, len(b.buckets))
	for category := range b.buckets {
		records, _ := b.category(category)
		result[category] = records
	}
	return result
}

// Reset replaces every bucket with an empty one. Idempotent.
func (b *OrderEventBook) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buckets = make(map[OrderEventCategory]*deque.Deque[OrderEventRecord], len(OrderEventCategories()))
	for _, category := range OrderEventCategories() {
		b.buckets[category] = &deque.Deque[OrderEventRecord]{}
	}
}
