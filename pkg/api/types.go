package api

import (
	"bytes"
	"encoding/json"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

// API request/response types for REST endpoints and WebSocket messages.
// Field names are part of the wire contract.

// ==============================
// REST Request Types
// ==============================

// PlaceOrderRequest is the payload for POST /orders.
// Quantity and price accept JSON numbers or numeric strings; they are kept
// raw so that the validator decides how to report bad values.
type PlaceOrderRequest struct {
	Symbol     string          `json:"symbol"`
	OrderType  string          `json:"orderType"`
	OrderStyle string          `json:"orderStyle"`
	Quantity   json.RawMessage `json:"quantity"`
	Price      json.RawMessage `json:"price"`
}

// toOrderRequest converts the wire payload into the validator input.
func (r PlaceOrderRequest) toOrderRequest() order.Request {
	return order.Request{
		Symbol:     r.Symbol,
		OrderType:  r.OrderType,
		OrderStyle: r.OrderStyle,
		Quantity:   rawNumber(r.Quantity),
		Price:      optionalNumber(r.Price),
	}
}

// rawNumber returns the textual value of a JSON scalar: a number as
// written, a string unquoted, and "" for absent or null.
func rawNumber(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	}
	return string(raw)
}

// optionalNumber is rawNumber that keeps absent (or null) apart from "".
func optionalNumber(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	s := rawNumber(raw)
	return &s
}

// ==============================
// REST Response Types
// ==============================

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSMessage is the envelope for all server-pushed WebSocket messages
type WSMessage struct {
	Type    string      `json:"type"`              // "order", "portfolio", "subscribed"
	Channel string      `json:"channel,omitempty"` // e.g. "orders:123"
	Data    interface{} `json:"data,omitempty"`
}

// WSSubscribeRequest is sent by client to subscribe to channels
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g., ["orders:123", "portfolio:123"]
}
