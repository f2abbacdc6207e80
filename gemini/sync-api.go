package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spooky-finn/go-gemini-bridge/domain"
)

const apiTimeout = 10 * time.Second

// SyncAPI wraps Gemini's public REST endpoints. Stateless request and
// response calls, no authentication.
type SyncAPI struct {
	baseURL string
	client  *http.Client
}

func NewSyncAPI(sandbox bool) *SyncAPI {
	return &SyncAPI{
		baseURL: restBaseURL(sandbox) + "/v1",
		client:  &http.Client{Timeout: apiTimeout},
	}
}

type Ticker struct {
	Bid    string                 `json:"bid"`
	Ask    string                 `json:"ask"`
	Last   string                 `json:"last"`
	Volume map[string]interface{} `json:"volume"`
}

type BookEntry struct {
	Price     string `json:"price"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

type CurrentOrderBook struct {
	Bids []BookEntry `json:"bids"`
	Asks []BookEntry `json:"asks"`
}

type TradeHistoryEntry struct {
	Timestamp   int64  `json:"timestamp"`
	TimestampMs int64  `json:"timestampms"`
	TID         int64  `json:"tid"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
	Exchange    string `json:"exchange"`
	Type        string `json:"type"`
}

type AuctionEvent struct {
	LastAuctionPrice    string `json:"last_auction_price"`
	LastAuctionQuantity string `json:"last_auction_quantity"`
	LastHighestBidPrice string `json:"last_highest_bid_price"`
	LastLowestAskPrice  string `json:"last_lowest_ask_price"`
	NextUpdateMs        int64  `json:"next_update_ms"`
	NextAuctionMs       int64  `json:"next_auction_ms"`
	LastAuctionEid      int64  `json:"last_auction_eid"`
}

// Symbols retrieves all product ids available for trading.
func (api *SyncAPI) Symbols() ([]string, error) {
	var symbols []string
	if err := api.getJSON("/symbols", &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

// Ticker retrieves recent trading activity for a symbol.
func (api *SyncAPI) Ticker(symbol *domain.MarketSymbol) (*Ticker, error) {
	ticker := &Ticker{}
	if err := api.getJSON("/pubticker/"+symbol.ProductID(), ticker); err != nil {
		return nil, err
	}
	return ticker, nil
}

// CurrentOrderBook retrieves the provider-side book as two arrays.
func (api *SyncAPI) CurrentOrderBook(symbol *domain.MarketSymbol) (*CurrentOrderBook, error) {
	book := &CurrentOrderBook{}
	if err := api.getJSON("/book/"+symbol.ProductID(), book); err != nil {
		return nil, err
	}
	return book, nil
}

// TradeHistory returns executed trades since the given time; a zero
// time means the exchange default window.
func (api *SyncAPI) TradeHistory(symbol *domain.MarketSymbol, since time.Time) ([]TradeHistoryEntry, error) {
	path := "/trades/" + symbol.ProductID()
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(fmt.Sprintf("%d", since.Unix()))
	}

	var trades []TradeHistoryEntry
	if err := api.getJSON(path, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// AuctionHistory returns auction events since the given time.
func (api *SyncAPI) AuctionHistory(symbol *domain.MarketSymbol, since time.Time) ([]AuctionEvent, error) {
	path := "/auction/" + symbol.ProductID()
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(fmt.Sprintf("%d", since.Unix()))
	}

	var events []AuctionEvent
	if err := api.getJSON(path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (api *SyncAPI) getJSON(path string, out interface{}) error {
	resp, err := api.client.Get(api.baseURL + path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
