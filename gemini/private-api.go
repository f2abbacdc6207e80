package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spooky-finn/go-gemini-bridge/domain"
)

// PrivateAPI wraps Gemini's authenticated REST endpoints. Every call is
// a signed POST; parameters travel in the signed payload header, not
// the body.
type PrivateAPI struct {
	baseURL string
	signer  *Signer
	client  *http.Client
}

func NewPrivateAPI(apiKey, apiSecret string, sandbox bool) *PrivateAPI {
	return &PrivateAPI{
		baseURL: restBaseURL(sandbox),
		signer:  NewSigner(apiKey, apiSecret),
		client:  &http.Client{Timeout: apiTimeout},
	}
}

type Order struct {
	OrderID           string   `json:"order_id"`
	ClientOrderID     string   `json:"client_order_id"`
	Symbol            string   `json:"symbol"`
	Side              string   `json:"side"`
	Type              string   `json:"type"`
	Price             string   `json:"price"`
	OriginalAmount    string   `json:"original_amount"`
	ExecutedAmount    string   `json:"executed_amount"`
	RemainingAmount   string   `json:"remaining_amount"`
	AvgExecutionPrice string   `json:"avg_execution_price"`
	IsLive            bool     `json:"is_live"`
	IsCancelled       bool     `json:"is_cancelled"`
	Timestamp         string   `json:"timestamp"`
	Options           []string `json:"options"`
}

type PastTrade struct {
	Price         string `json:"price"`
	Amount        string `json:"amount"`
	Timestamp     int64  `json:"timestamp"`
	TimestampMs   int64  `json:"timestampms"`
	Type          string `json:"type"`
	FeeCurrency   string `json:"fee_currency"`
	FeeAmount     string `json:"fee_amount"`
	TID           int64  `json:"tid"`
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
}

type Balance struct {
	Currency               string `json:"currency"`
	Amount                 string `json:"amount"`
	Available              string `json:"available"`
	AvailableForWithdrawal string `json:"availableForWithdrawal"`
	Type                   string `json:"type"`
}

// NewOrder places a limit order. A client order id is generated for
// correlation with the order events feed.
func (api *PrivateAPI) NewOrder(symbol *domain.MarketSymbol, side domain.Side, amount, price string, options []string) (*Order, error) {
	payload := map[string]interface{}{
		"client_order_id": uuid.NewString(),
		"symbol":          symbol.ProductID(),
		"amount":          amount,
		"price":           price,
		"side":            string(side),
		"type":            "exchange limit",
	}
	if len(options) > 0 {
		payload["options"] = options
	}

	order := &Order{}
	if err := api.post("/v1/order/new", payload, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels one resting order by id.
func (api *PrivateAPI) CancelOrder(orderID string) (*Order, error) {
	order := &Order{}
	err := api.post("/v1/order/cancel", map[string]interface{}{"order_id": orderID}, order)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelAllActiveOrders cancels every order opened by this account.
func (api *PrivateAPI) CancelAllActiveOrders() error {
	return api.post("/v1/order/cancel/all", nil, nil)
}

// ActiveOrders lists all resting orders.
func (api *PrivateAPI) ActiveOrders() ([]Order, error) {
	var orders []Order
	if err := api.post("/v1/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PastTrades lists past trades for a symbol, newest first. A
// limitTrades of 0 means the exchange default.
func (api *PrivateAPI) PastTrades(symbol *domain.MarketSymbol, limitTrades int) ([]PastTrade, error) {
	payload := map[string]interface{}{"symbol": symbol.ProductID()}
	if limitTrades > 0 {
		payload["limit_trades"] = limitTrades
	}

	var trades []PastTrade
	if err := api.post("/v1/mytrades", payload, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// Balances lists available balances in the supported currencies.
func (api *PrivateAPI) Balances() ([]Balance, error) {
	var balances []Balance
	if err := api.post("/v1/balances", nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// Heartbeat keeps a heartbeat-scoped session alive.
func (api *PrivateAPI) Heartbeat() error {
	return api.post("/v1/heartbeat", nil, nil)
}

func (api *PrivateAPI) post(request string, payload map[string]interface{}, out interface{}) error {
	header, err := api.signer.Headers(request, payload)
	if err != nil {
		return fmt.Errorf("sign %s: %w", request, err)
	}

	req, err := http.NewRequest(http.MethodPost, api.baseURL+request, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", request, err)
	}
	req.Header = header

	resp, err := api.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", request, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %s", request, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", request, err)
	}
	return nil
}
