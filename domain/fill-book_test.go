package domain_test

import (
	"sync"
	"testing"

	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/stretchr/testify/assert"
)

func fillRecord(price string, side domain.Side) domain.TradeRecord {
	return domain.TradeRecord{
		EventID:   2364281810,
		TID:       2364281810,
		Timestamp: 1512076268,
		Price:     price,
		Amount:    "0.3865",
		MakerSide: side,
	}
}

func TestFillBook_AddAppendsAtSamePrice(t *testing.T) {
	book := domain.NewFillBook()

	assert.NoError(t, book.AddToBids("11000", fillRecord("11000", domain.SideBid)))
	assert.NoError(t, book.AddToBids("11000", fillRecord("11000", domain.SideBid)))

	records := book.SearchPrice("11000")
	assert.Len(t, records, 2, "a second fill at the same price should append, not replace")
}

func TestFillBook_RemoveDeletesWholeEntry(t *testing.T) {
	book := domain.NewFillBook()

	assert.NoError(t, book.AddToBids("11000", fillRecord("11000", domain.SideBid)))
	assert.NoError(t, book.RemoveFromBids("11000"))

	assert.Empty(t, book.SearchPrice("11000"), "removed price should search as empty, not error")

	err := book.RemoveFromBids("11000")
	assert.ErrorIs(t, err, domain.ErrPriceNotFound)

	err = book.RemoveFromAsks("12000")
	assert.ErrorIs(t, err, domain.ErrPriceNotFound)
}

func TestFillBook_SearchMergesSides(t *testing.T) {
	book := domain.NewFillBook()

	askRecord := fillRecord("9610.40", domain.SideAsk)
	bidRecord := fillRecord("9610.40", domain.SideBid)
	assert.NoError(t, book.AddToAsks("9610.40", askRecord))
	assert.NoError(t, book.AddToBids("9610.40", bidRecord))

	records := book.SearchPrice("9610.40")
	assert.Equal(t, []domain.TradeRecord{askRecord, bidRecord}, records, "asks should come first when both sides hold the price")

	assert.Empty(t, book.SearchPrice("1.00"), "unknown price should yield an empty result")
}

func TestFillBook_RejectsMalformedRecord(t *testing.T) {
	book := domain.NewFillBook()

	malformed := fillRecord("11000", domain.SideBid)
	malformed.Amount = ""

	err := book.AddToBids("11000", malformed)
	assert.Error(t, err)
	assert.Empty(t, book.SearchPrice("11000"), "state should be unchanged after a rejected insertion")

	malformed = fillRecord("11000", "buy")
	err = book.AddToAsks("11000", malformed)
	assert.Error(t, err, "maker side outside bid/ask should be rejected")
}

func TestFillBook_MarketBookSnapshot(t *testing.T) {
	book := domain.NewFillBook()

	assert.NoError(t, book.AddToAsks("9610.40", fillRecord("9610.40", domain.SideAsk)))

	snapshot := book.MarketBook()
	assert.Len(t, snapshot.Asks["9610.40"], 1)
	assert.Empty(t, snapshot.Bids)

	// Mutating the snapshot must not touch the book.
	snapshot.Asks["9610.40"][0].Amount = "tampered"
	assert.Equal(t, "0.3865", book.SearchPrice("9610.40")[0].Amount)
}

// Exercised under -race: fills keep landing while another goroutine
// searches and snapshots.
func TestFillBook_ConcurrentSearchDuringInserts(t *testing.T) {
	book := domain.NewFillBook()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			assert.NoError(t, book.AddToAsks("9610.40", fillRecord("9610.40", domain.SideAsk)))
		}
	}()

	for i := 0; i < 5000; i++ {
		book.SearchPrice("9610.40")
		book.MarketBook()
	}
	wg.Wait()
}

func TestFillBook_Reset(t *testing.T) {
	book := domain.NewFillBook()

	assert.NoError(t, book.AddToAsks("9610.40", fillRecord("9610.40", domain.SideAsk)))
	assert.NoError(t, book.AddToBids("9600.00", fillRecord("9600.00", domain.SideBid)))

	book.Reset()

	snapshot := book.MarketBook()
	assert.Empty(t, snapshot.Asks)
	assert.Empty(t, snapshot.Bids)
}
