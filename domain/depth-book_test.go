package domain_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/stretchr/testify/assert"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDepthBook_ApplyChange(t *testing.T) {
	book := domain.NewDepthBook()

	err := book.ApplyChange(domain.SideAsk, "9610.40", dec(t, "1.7439"))
	assert.NoError(t, err)
	assert.Equal(t, 1, book.Depth(domain.SideAsk))

	// Last write wins per price, no summation.
	err = book.ApplyChange(domain.SideAsk, "9610.40", dec(t, "0.5"))
	assert.NoError(t, err)
	assert.Equal(t, 1, book.Depth(domain.SideAsk))

	best, err := book.BestAsk()
	assert.NoError(t, err)
	assert.True(t, best.Remaining.Equal(dec(t, "0.5")), "remaining should equal the last change value")
}

func TestDepthBook_RemoveOnZeroRemaining(t *testing.T) {
	book := domain.NewDepthBook()

	err := book.ApplyChange(domain.SideBid, "9594.37", dec(t, "19.5"))
	assert.NoError(t, err)
	assert.Equal(t, 1, book.Depth(domain.SideBid))

	err = book.ApplyChange(domain.SideBid, "9594.37", decimal.Zero)
	assert.NoError(t, err)
	assert.Equal(t, 0, book.Depth(domain.SideBid))

	// Removing an already absent level is idempotent.
	err = book.ApplyChange(domain.SideBid, "9594.37", decimal.Zero)
	assert.NoError(t, err)
	assert.Equal(t, 0, book.Depth(domain.SideBid))
}

func TestDepthBook_BestBidAndAsk(t *testing.T) {
	book := domain.NewDepthBook()

	_, err := book.BestBid()
	assert.ErrorIs(t, err, domain.ErrEmptyBookSide, "empty bids should be a usage error")
	_, err = book.BestAsk()
	assert.ErrorIs(t, err, domain.ErrEmptyBookSide, "empty asks should be a usage error")

	assert.NoError(t, book.ApplyChange(domain.SideBid, "9900", dec(t, "2")))
	assert.NoError(t, book.ApplyChange(domain.SideBid, "10000", dec(t, "1")))
	assert.NoError(t, book.ApplyChange(domain.SideAsk, "10200", dec(t, "2.5")))
	assert.NoError(t, book.ApplyChange(domain.SideAsk, "10100", dec(t, "1.5")))

	bid, err := book.BestBid()
	assert.NoError(t, err)
	assert.True(t, bid.Price.Equal(dec(t, "10000")), "best bid should be the maximum bid price")

	ask, err := book.BestAsk()
	assert.NoError(t, err)
	assert.True(t, ask.Price.Equal(dec(t, "10100")), "best ask should be the minimum ask price")
}

func TestDepthBook_Snapshot(t *testing.T) {
	book := domain.NewDepthBook()

	assert.NoError(t, book.ApplyChange(domain.SideAsk, "10200", dec(t, "2.5")))
	assert.NoError(t, book.ApplyChange(domain.SideAsk, "10100", dec(t, "1.5")))
	assert.NoError(t, book.ApplyChange(domain.SideBid, "9900", dec(t, "2")))
	assert.NoError(t, book.ApplyChange(domain.SideBid, "10000", dec(t, "1")))

	snapshot := book.Snapshot(0)

	assert.Equal(t, [][]string{{"10100", "1.5"}, {"10200", "2.5"}}, snapshot.Asks, "asks should be sorted ascending")
	assert.Equal(t, [][]string{{"10000", "1"}, {"9900", "2"}}, snapshot.Bids, "bids should be sorted descending")

	limited := book.Snapshot(1)
	assert.Equal(t, [][]string{{"10100", "1.5"}}, limited.Asks)
	assert.Equal(t, [][]string{{"10000", "1"}}, limited.Bids)
}

func TestDepthBook_Reset(t *testing.T) {
	book := domain.NewDepthBook()

	assert.NoError(t, book.ApplyChange(domain.SideAsk, "10100", dec(t, "1.5")))
	assert.NoError(t, book.ApplyChange(domain.SideBid, "9900", dec(t, "2")))

	book.Reset()

	snapshot := book.Snapshot(0)
	assert.Empty(t, snapshot.Asks)
	assert.Empty(t, snapshot.Bids)

	// Reset is idempotent.
	book.Reset()
	assert.Equal(t, 0, book.Depth(domain.SideAsk))
	assert.Equal(t, 0, book.Depth(domain.SideBid))
}

// Exercised under -race: the feed worker keeps applying changes while
// another goroutine polls the best levels and snapshots, the way a
// caller watches a live book.
func TestDepthBook_ConcurrentReadsDuringWrites(t *testing.T) {
	book := domain.NewDepthBook()
	remaining := dec(t, "1.5")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			price := strconv.Itoa(9000 + i%50)
			assert.NoError(t, book.ApplyChange(domain.SideAsk, price, remaining))
			assert.NoError(t, book.ApplyChange(domain.SideAsk, price, decimal.Zero))
		}
	}()

	for i := 0; i < 5000; i++ {
		if _, err := book.BestAsk(); err != nil {
			assert.ErrorIs(t, err, domain.ErrEmptyBookSide)
		}
		book.Snapshot(5)
		book.Depth(domain.SideAsk)
	}
	wg.Wait()
}

func TestDepthBook_MalformedPrice(t *testing.T) {
	book := domain.NewDepthBook()

	err := book.ApplyChange(domain.SideAsk, "not-a-price", dec(t, "1"))
	assert.Error(t, err)
	assert.Equal(t, 0, book.Depth(domain.SideAsk), "state should be unchanged after a rejected change")
}
