package domain

import "fmt"

// Side of the book a record lives on. The market data feed reports it
// either as the changed side of a price level or as the maker side of
// a trade.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

func ParseSide(s string) (Side, error) {
	switch s {
	case "bid":
		return SideBid, nil
	case "ask":
		return SideAsk, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}
