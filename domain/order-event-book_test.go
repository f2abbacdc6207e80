package domain_test

import (
	"testing"

	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/stretchr/testify/assert"
)

func orderEvent(category domain.OrderEventCategory, orderID string) domain.OrderEventRecord {
	return domain.OrderEventRecord{
		Type:           category,
		OrderID:        orderID,
		EventID:        107317090,
		Symbol:         "btcusd",
		Side:           "buy",
		OrderType:      "exchange limit",
		Price:          "3592.00",
		OriginalAmount: "14.0296",
		TimestampMs:    1547742904989,
	}
}

func TestOrderEventBook_AllCategoriesExist(t *testing.T) {
	book := domain.NewOrderEventBook()

	for _, category := range domain.OrderEventCategories() {
		records, err := book.Category(category)
		assert.NoError(t, err, "category %q should exist on a fresh book", category)
		assert.Empty(t, records)
	}
}

func TestOrderEventBook_RoutesByType(t *testing.T) {
	book := domain.NewOrderEventBook()

	assert.NoError(t, book.Append(orderEvent(domain.OrderEventAccepted, "109535951")))

	accepted, err := book.Category(domain.OrderEventAccepted)
	assert.NoError(t, err)
	assert.Len(t, accepted, 1)

	for _, category := range domain.OrderEventCategories() {
		if category == domain.OrderEventAccepted {
			continue
		}
		n, err := book.Len(category)
		assert.NoError(t, err)
		assert.Zero(t, n, "category %q should stay empty", category)
	}
}

func TestOrderEventBook_UnknownCategory(t *testing.T) {
	book := domain.NewOrderEventBook()

	err := book.Append(orderEvent("settled", "109535951"))
	assert.ErrorIs(t, err, domain.ErrUnknownCategory, "the category set is closed")

	_, err = book.Category("settled")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	err = book.RemoveOrder("settled", "109535951")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestOrderEventBook_RemoveOrder(t *testing.T) {
	book := domain.NewOrderEventBook()

	first := orderEvent(domain.OrderEventFill, "109535951")
	first.EventID = 1
	second := orderEvent(domain.OrderEventFill, "109535951")
	second.EventID = 2
	assert.NoError(t, book.Append(first))
	assert.NoError(t, book.Append(second))

	assert.NoError(t, book.RemoveOrder(domain.OrderEventFill, "109535951"))

	records, err := book.Category(domain.OrderEventFill)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].EventID, "the most recent matching record should be removed")

	err = book.RemoveOrder(domain.OrderEventFill, "0000000")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderEventBook_Reset(t *testing.T) {
	book := domain.NewOrderEventBook()

	assert.NoError(t, book.Append(orderEvent(domain.OrderEventBooked, "109535951")))
	book.Reset()

	for _, category := range domain.OrderEventCategories() {
		n, err := book.Len(category)
		assert.NoError(t, err, "reset must keep every category key")
		assert.Zero(t, n)
	}
}
