package order

import (
	"errors"
	"strings"
)

// ErrorKind classifies a rejected order request.
type ErrorKind string

const (
	MissingFields        ErrorKind = "MissingFields"
	UnknownInstrument    ErrorKind = "UnknownInstrument"
	InvalidOrderType     ErrorKind = "InvalidOrderType"
	InvalidOrderStyle    ErrorKind = "InvalidOrderStyle"
	InvalidQuantity      ErrorKind = "InvalidQuantity"
	InsufficientHoldings ErrorKind = "InsufficientHoldings"
	InvalidPrice         ErrorKind = "InvalidPrice"
)

// Client-facing messages. They are part of the HTTP contract.
const (
	MsgUnknownInstrument    = "Invalid instrument symbol"
	MsgInvalidOrderType     = "Invalid orderType. Must be BUY or SELL"
	MsgInvalidOrderStyle    = "Invalid orderStyle. Must be MARKET or LIMIT"
	MsgInvalidQuantity      = "Quantity must be a number greater than 0"
	MsgInsufficientHoldings = "Insufficient holdings to place SELL order"
	MsgMissingPrice         = "Price is mandatory and must be > 0 for LIMIT orders"
	MsgInvalidPriceFormat   = "Invalid price format"
	MsgOrderNotFound        = "Order not found"
)

var (
	// ErrOrderNotFound is returned by ledger lookups for unknown order IDs.
	ErrOrderNotFound = errors.New(MsgOrderNotFound)
	// ErrIDExhausted means no unused order ID could be generated.
	ErrIDExhausted = errors.New("could not generate a unique order id")
)

// ValidationError rejects an order request. It never leaves a ledger write behind.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Reject builds a ValidationError.
func Reject(kind ErrorKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Message: msg}
}

// MissingFieldsError names each absent required field in request order.
func MissingFieldsError(fields ...string) *ValidationError {
	return Reject(MissingFields, "Missing required fields: "+strings.Join(fields, " "))
}

// KindOf returns the ValidationError kind of err, or "" if err is not one.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
