package portfolio

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/tradedesk/pkg/app/core/instrument"
	"github.com/uhyunpark/tradedesk/pkg/app/core/ledger"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

const alice order.UserID = 123

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mk(typ order.Type, symbol, qty, price string) order.Order {
	return order.Order{
		UserID:   alice,
		Symbol:   symbol,
		Type:     typ,
		Style:    order.Limit,
		Quantity: d(qty),
		Price:    d(price),
		Status:   order.StatusPlaced,
	}
}

func TestProjectWeightedAverage(t *testing.T) {
	holdings := Project([]order.Order{
		mk(order.Buy, "TCS", "10", "100"),
		mk(order.Buy, "TCS", "10", "200"),
	}, instrument.Default())

	h, ok := holdings["TCS"]
	if !ok {
		t.Fatal("TCS missing from portfolio")
	}
	if !h.Quantity.Equal(d("20")) {
		t.Errorf("quantity = %s, want 20", h.Quantity)
	}
	if !h.AveragePrice.Equal(d("150.00")) {
		t.Errorf("averagePrice = %s, want 150.00", h.AveragePrice)
	}
	if !h.CurrentValue.Equal(d("64080.00")) {
		t.Errorf("currentValue = %s, want 64080.00 (20 × 3204)", h.CurrentValue)
	}
}

func TestProjectScenarios(t *testing.T) {
	tests := []struct {
		name   string
		orders []order.Order
		want   map[string][2]string // symbol -> {quantity, averagePrice}
	}{
		{
			name: "buy then sell everything removes the symbol",
			orders: []order.Order{
				mk(order.Buy, "INFY", "5", "100"),
				mk(order.Sell, "INFY", "5", "120"),
			},
			want: map[string][2]string{},
		},
		{
			name: "sell leaves average price unchanged",
			orders: []order.Order{
				mk(order.Buy, "INFY", "4", "100"),
				mk(order.Buy, "INFY", "4", "110"),
				mk(order.Sell, "INFY", "6", "500"),
			},
			want: map[string][2]string{"INFY": {"2", "105"}},
		},
		{
			name: "oversell floors quantity at zero",
			orders: []order.Order{
				mk(order.Buy, "TCS", "1", "10"),
				mk(order.Sell, "TCS", "3", "10"),
			},
			want: map[string][2]string{},
		},
		{
			name: "rebuy after flat starts from the new price",
			orders: []order.Order{
				mk(order.Buy, "TCS", "2", "10"),
				mk(order.Sell, "TCS", "2", "10"),
				mk(order.Buy, "TCS", "1", "40"),
			},
			want: map[string][2]string{"TCS": {"1", "40"}},
		},
		{
			name: "symbols fold independently",
			orders: []order.Order{
				mk(order.Buy, "TCS", "1", "10"),
				mk(order.Buy, "INFY", "3", "7"),
				mk(order.Buy, "TCS", "3", "20"),
			},
			want: map[string][2]string{"TCS": {"4", "17.5"}, "INFY": {"3", "7"}},
		},
		{
			name: "average rounded only at output",
			orders: []order.Order{
				mk(order.Buy, "HDFCBANK", "3", "10"),
				mk(order.Buy, "HDFCBANK", "3", "10.01"),
				mk(order.Buy, "HDFCBANK", "3", "10.01"),
			},
			// (30 + 30.03 + 30.03) / 9 = 10.00666… → 10.01
			want: map[string][2]string{"HDFCBANK": {"9", "10.01"}},
		},
		{
			name: "fractional quantities",
			orders: []order.Order{
				mk(order.Buy, "RELIANCE", "0.5", "1500"),
				mk(order.Sell, "RELIANCE", "0.25", "1600"),
			},
			want: map[string][2]string{"RELIANCE": {"0.25", "1500"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.orders, instrument.Default())
			if len(got) != len(tt.want) {
				t.Fatalf("holdings = %v, want %d symbols", got, len(tt.want))
			}
			for sym, w := range tt.want {
				h, ok := got[sym]
				if !ok {
					t.Fatalf("missing %s", sym)
				}
				if !h.Quantity.Equal(d(w[0])) {
					t.Errorf("%s quantity = %s, want %s", sym, h.Quantity, w[0])
				}
				if !h.AveragePrice.Equal(d(w[1])) {
					t.Errorf("%s averagePrice = %s, want %s", sym, h.AveragePrice, w[1])
				}
			}
		})
	}
}

func TestUnroundedIntermediateAverage(t *testing.T) {
	// Rounding each step would give 10.67 then (10.67×3+10×3)/6 = 10.335 → 10.34.
	// Folding unrounded gives (32+30)/6 = 10.333… → 10.33.
	holdings := Project([]order.Order{
		mk(order.Buy, "TCS", "1", "10"),
		mk(order.Buy, "TCS", "1", "10"),
		mk(order.Buy, "TCS", "1", "12"),
		mk(order.Buy, "TCS", "3", "10"),
	}, instrument.Default())

	if got := holdings["TCS"].AveragePrice; !got.Equal(d("10.33")) {
		t.Errorf("averagePrice = %s, want 10.33", got)
	}
}

func TestCurrentValueFollowsCatalog(t *testing.T) {
	cat := instrument.Default()
	orders := []order.Order{mk(order.Buy, "INFY", "3", "1600")}

	before := Project(orders, cat)["INFY"]
	if !before.CurrentValue.Equal(d("4839")) {
		t.Errorf("currentValue = %s, want 4839", before.CurrentValue)
	}

	if err := cat.UpdatePrice("INFY", d("1700.333")); err != nil {
		t.Fatal(err)
	}
	after := Project(orders, cat)["INFY"]
	if !after.CurrentValue.Equal(d("5101")) {
		t.Errorf("currentValue = %s, want 5101.00 (3 × 1700.333 rounded)", after.CurrentValue)
	}
	if !after.AveragePrice.Equal(before.AveragePrice) {
		t.Error("average price must not follow the catalog")
	}
}

func TestProjectorReadsLedger(t *testing.T) {
	l := ledger.NewMemoryLedger()
	for i, o := range []order.Order{
		mk(order.Buy, "TCS", "2", "3000"),
		mk(order.Buy, "TCS", "2", "3100"),
	} {
		o.OrderID = fmt.Sprintf("o%d", i)
		if err := l.Append(o); err != nil {
			t.Fatal(err)
		}
	}
	other := mk(order.Buy, "INFY", "1", "1")
	other.OrderID, other.UserID = "x", 9
	_ = l.Append(other)

	p := NewProjector(l, instrument.Default())

	first, err := p.Portfolio(alice)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := p.Portfolio(alice)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads differ: %v vs %v", first, second)
	}
	if _, ok := first["INFY"]; ok {
		t.Error("another user's order leaked into the portfolio")
	}

	h, ok, err := p.Holding(alice, "TCS")
	if err != nil || !ok {
		t.Fatalf("holding: ok=%v err=%v", ok, err)
	}
	if !h.AveragePrice.Equal(d("3050")) || !h.Quantity.Equal(d("4")) {
		t.Errorf("holding = %+v", h)
	}

	if _, ok, _ := p.Holding(alice, "ICICIBANK"); ok {
		t.Error("unexpected ICICIBANK holding")
	}
}

func TestSortedAndTotal(t *testing.T) {
	holdings := map[string]Holding{
		"TCS":  {Symbol: "TCS", CurrentValue: d("10.50")},
		"INFY": {Symbol: "INFY", CurrentValue: d("2.25")},
		"HDFC": {Symbol: "HDFC", CurrentValue: d("1")},
	}
	got := Sorted(holdings)
	if got[0].Symbol != "HDFC" || got[1].Symbol != "INFY" || got[2].Symbol != "TCS" {
		t.Errorf("sorted = %v", got)
	}
	if total := TotalValue(holdings); !total.Equal(d("13.75")) {
		t.Errorf("total = %s, want 13.75", total)
	}
}
