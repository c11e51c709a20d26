package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UserID identifies the owner of an order.
type UserID int64

func (u UserID) String() string { return fmt.Sprintf("%d", int64(u)) }

// Type is the order side.
type Type string

const (
	Buy  Type = "BUY"
	Sell Type = "SELL"
)

// Valid reports whether t is BUY or SELL.
func (t Type) Valid() bool { return t == Buy || t == Sell }

// Style decides how the execution price is resolved.
type Style string

const (
	Market Style = "MARKET" // executes at the instrument's last traded price
	Limit  Style = "LIMIT"  // executes at the submitted price
)

// Valid reports whether s is MARKET or LIMIT.
func (s Style) Valid() bool { return s == Market || s == Limit }

// StatusPlaced is the only status an accepted order can have.
const StatusPlaced = "placed"

// Order is an accepted, immutable ledger record.
// Price is the execution price fixed at acceptance time.
type Order struct {
	OrderID  string          `json:"orderId"`
	UserID   UserID          `json:"userId"`
	Symbol   string          `json:"symbol"`
	Type     Type            `json:"type"`
	Style    Style           `json:"style"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

// Notional returns quantity × price.
func (o Order) Notional() decimal.Decimal {
	return o.Quantity.Mul(o.Price)
}

// Request is the transient order submission as received from a client.
// Quantity and Price carry the raw numeric text. A nil Price was not
// supplied at all; an empty one was supplied and is malformed.
type Request struct {
	Symbol     string
	OrderType  string
	OrderStyle string
	Quantity   string
	Price      *string
}
