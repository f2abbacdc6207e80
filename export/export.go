// Package export renders ledger and order-event contents to flat
// delimited-text and hierarchical XML forms. It only reads already
// built state; it never touches a live feed.
package export

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/spooky-finn/go-gemini-bridge/domain"
	"github.com/spooky-finn/go-gemini-bridge/helpers"
)

var tradeFields = []string{"event_id", "tid", "timestamp", "price", "amount", "maker_side"}

var orderEventFields = []string{
	"type", "order_id", "event_id", "symbol", "side", "order_type",
	"price", "original_amount", "executed_amount", "remaining_amount",
	"avg_execution_price", "is_live", "is_cancelled", "timestamp",
	"timestampms", "socket_sequence",
}

func tradeValues(record domain.TradeRecord) []string {
	return []string{
		helpers.IntToString(record.EventID),
		helpers.IntToString(record.TID),
		helpers.IntToString(record.Timestamp),
		record.Price,
		record.Amount,
		string(record.MakerSide),
	}
}

func orderEventValues(record domain.OrderEventRecord) []string {
	return []string{
		string(record.Type),
		record.OrderID,
		helpers.IntToString(record.EventID),
		record.Symbol,
		record.Side,
		record.OrderType,
		record.Price,
		record.OriginalAmount,
		record.ExecutedAmount,
		record.RemainingAmount,
		record.AvgExecutionPrice,
		helpers.BoolToString(record.IsLive),
		helpers.BoolToString(record.IsCancelled),
		record.Timestamp,
		helpers.IntToString(record.TimestampMs),
		helpers.IntToString(record.SocketSequence),
	}
}

// TradesToCSV writes the ledger as delimited text, header row first.
func TradesToCSV(w io.Writer, trades []domain.TradeRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tradeFields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, trade := range trades {
		if err := writer.Write(tradeValues(trade)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// OrderEventsToCSV writes one category bucket as delimited text. An
// empty bucket is a reported error, matching the export surface's
// "nothing recorded" contract.
func OrderEventsToCSV(w io.Writer, book *domain.OrderEventBook, category domain.OrderEventCategory) error {
	records, err := book.Category(category)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no events recorded in category %q", category)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(orderEventFields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(orderEventValues(record)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type element struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []element
}

func recordElement(name string, fields, values []string) element {
	children := make([]element, len(fields))
	for i, field := range fields {
		children[i] = element{
			XMLName: xml.Name{Local: field},
			Text:    values[i],
		}
	}
	return element{
		XMLName:  xml.Name{Local: name},
		Children: children,
	}
}

func writeXML(w io.Writer, root element) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	encoded, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal xml: %w", err)
	}
	_, err = w.Write(append(encoded, '\n'))
	return err
}

// TradesToXML writes the ledger as a tree of <trade> records under a
// <trades> root.
func TradesToXML(w io.Writer, trades []domain.TradeRecord) error {
	root := element{XMLName: xml.Name{Local: "trades"}}
	for _, trade := range trades {
		root.Children = append(root.Children, recordElement("trade", tradeFields, tradeValues(trade)))
	}
	return writeXML(w, root)
}

// OrderEventsToXML writes one category bucket as a tree of records
// under a "<category>orders" root.
func OrderEventsToXML(w io.Writer, book *domain.OrderEventBook, category domain.OrderEventCategory) error {
	records, err := book.Category(category)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no events recorded in category %q", category)
	}

	root := element{XMLName: xml.Name{Local: string(category) + "orders"}}
	for _, record := range records {
		root.Children = append(root.Children, recordElement(string(category), orderEventFields, orderEventValues(record)))
	}
	return writeXML(w, root)
}
