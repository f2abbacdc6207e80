package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/spooky-finn/go-gemini-bridge/export"
	"github.com/stretchr/testify/assert"
)

func sampleTrades() []domain.TradeRecord {
	return []domain.TradeRecord{
		{
			EventID:   2364281810,
			TID:       2364281810,
			Timestamp: 1512076268,
			Price:     "9610.40",
			Amount:    "0.3865",
			MakerSide: domain.SideAsk,
		},
	}
}

func TestTradesToCSV(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, export.TradesToCSV(&buf, sampleTrades()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "event_id,tid,timestamp,price,amount,maker_side", lines[0])
	assert.Equal(t, "2364281810,2364281810,1512076268,9610.40,0.3865,ask", lines[1])
}

func TestTradesToCSV_EmptyLedgerWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, export.TradesToCSV(&buf, nil))

	assert.Equal(t, "event_id,tid,timestamp,price,amount,maker_side", strings.TrimSpace(buf.String()))
}

func TestTradesToXML(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, export.TradesToXML(&buf, sampleTrades()))

	out := buf.String()
	assert.Contains(t, out, "<trades>")
	assert.Contains(t, out, "<trade>")
	assert.Contains(t, out, "<price>9610.40</price>")
	assert.Contains(t, out, "<maker_side>ask</maker_side>")
}

func TestOrderEventsToCSV(t *testing.T) {
	book := domain.NewOrderEventBook()
	assert.NoError(t, book.Append(domain.OrderEventRecord{
		Type:           domain.OrderEventAccepted,
		OrderID:        "109535951",
		EventID:        109535952,
		Symbol:         "btcusd",
		Side:           "buy",
		OrderType:      "exchange limit",
		Price:          "3592.00",
		OriginalAmount: "14.0296",
		TimestampMs:    1547742904989,
	}))

	var buf bytes.Buffer
	assert.NoError(t, export.OrderEventsToCSV(&buf, book, domain.OrderEventAccepted))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "type,order_id,event_id,symbol"), "header row should lead with the fixed field set")
	assert.Contains(t, lines[1], "accepted,109535951,109535952,btcusd")
}

func TestOrderEventsToCSV_Errors(t *testing.T) {
	book := domain.NewOrderEventBook()

	var buf bytes.Buffer
	err := export.OrderEventsToCSV(&buf, book, "settled")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	err = export.OrderEventsToCSV(&buf, book, domain.OrderEventFill)
	assert.Error(t, err, "an empty category should be a reported error")
	assert.Zero(t, buf.Len())
}

func TestOrderEventsToXML(t *testing.T) {
	book := domain.NewOrderEventBook()
	assert.NoError(t, book.Append(domain.OrderEventRecord{
		Type:    domain.OrderEventFill,
		OrderID: "109535951",
		EventID: 109535952,
	}))

	var buf bytes.Buffer
	assert.NoError(t, export.OrderEventsToXML(&buf, book, domain.OrderEventFill))

	out := buf.String()
	assert.Contains(t, out, "<fillorders>")
	assert.Contains(t, out, "<fill>")
	assert.Contains(t, out, "<order_id>109535951</order_id>")
}
