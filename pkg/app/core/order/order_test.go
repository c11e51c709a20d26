package order

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTypeAndStyleValid(t *testing.T) {
	tests := []struct {
		in   string
		typ  bool
		styl bool
	}{
		{"BUY", true, false},
		{"SELL", true, false},
		{"MARKET", false, true},
		{"LIMIT", false, true},
		{"buy", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := Type(tt.in).Valid(); got != tt.typ {
			t.Errorf("Type(%q).Valid() = %v, want %v", tt.in, got, tt.typ)
		}
		if got := Style(tt.in).Valid(); got != tt.styl {
			t.Errorf("Style(%q).Valid() = %v, want %v", tt.in, got, tt.styl)
		}
	}
}

func TestOrderJSONFieldNames(t *testing.T) {
	o := Order{
		OrderID:  "abc",
		UserID:   123,
		Symbol:   "TCS",
		Type:     Buy,
		Style:    Market,
		Quantity: decimal.NewFromInt(2),
		Price:    decimal.RequireFromString("3204.00"),
		Status:   StatusPlaced,
	}
	data, err := json.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"orderId", "userId", "symbol", "type", "style", "quantity", "price", "status"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("missing field %q in %s", k, data)
		}
	}
	if len(fields) != 8 {
		t.Errorf("unexpected extra fields: %s", data)
	}
	if fields["userId"].(float64) != 123 {
		t.Errorf("userId = %v", fields["userId"])
	}
}

func TestNotional(t *testing.T) {
	o := Order{Quantity: decimal.RequireFromString("2.5"), Price: decimal.RequireFromString("100.10")}
	if got := o.Notional().String(); got != "250.25" {
		t.Errorf("notional = %s, want 250.25", got)
	}
}

func TestValidationErrors(t *testing.T) {
	err := MissingFieldsError("symbol", "orderStyle")
	if err.Error() != "Missing required fields: symbol orderStyle" {
		t.Errorf("message = %q", err.Error())
	}

	wrapped := fmt.Errorf("place: %w", Reject(InsufficientHoldings, MsgInsufficientHoldings))
	if KindOf(wrapped) != InsufficientHoldings {
		t.Errorf("KindOf = %q", KindOf(wrapped))
	}
	if KindOf(ErrOrderNotFound) != "" {
		t.Error("sentinel errors have no validation kind")
	}
}
