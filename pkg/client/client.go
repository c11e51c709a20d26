// Package client is a small HTTP client for the order entry API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/tradedesk/pkg/app/core/instrument"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/app/core/portfolio"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// OrderInput describes an order to place. A zero Price is omitted, which the
// server accepts for MARKET orders only.
type OrderInput struct {
	Symbol   string
	Type     order.Type
	Style    order.Style
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

type orderBody struct {
	Symbol     string      `json:"symbol"`
	OrderType  string      `json:"orderType"`
	OrderStyle string      `json:"orderStyle"`
	Quantity   json.Number `json:"quantity"`
	Price      json.Number `json:"price,omitempty"`
}

func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("server unhealthy: %q", out.Status)
	}
	return nil
}

func (c *Client) Instruments(ctx context.Context) ([]instrument.Instrument, error) {
	var out []instrument.Instrument
	err := c.do(ctx, http.MethodGet, "/instruments", nil, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, in OrderInput) (order.Order, error) {
	body := orderBody{
		Symbol:     in.Symbol,
		OrderType:  string(in.Type),
		OrderStyle: string(in.Style),
		Quantity:   json.Number(in.Quantity.String()),
	}
	if !in.Price.IsZero() {
		body.Price = json.Number(in.Price.String())
	}
	var out order.Order
	err := c.do(ctx, http.MethodPost, "/orders", body, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id string) (order.Order, error) {
	var out order.Order
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Trades(ctx context.Context) ([]order.Order, error) {
	var out []order.Order
	err := c.do(ctx, http.MethodGet, "/trades", nil, &out)
	return out, err
}

// Portfolio returns the holdings sorted by symbol.
func (c *Client) Portfolio(ctx context.Context) ([]portfolio.Holding, error) {
	var out []portfolio.Holding
	err := c.do(ctx, http.MethodGet, "/portfolio", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
