package portfolio

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/uhyunpark/tradedesk/pkg/app/core/instrument"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

var symbols = []string{"RELIANCE", "TCS", "INFY"}

func drawOrders(t *rapid.T) []order.Order {
	n := rapid.IntRange(0, 30).Draw(t, "n")
	orders := make([]order.Order, 0, n)
	for i := 0; i < n; i++ {
		typ := order.Buy
		if rapid.Bool().Draw(t, "sell") {
			typ = order.Sell
		}
		orders = append(orders, order.Order{
			UserID:   alice,
			Symbol:   rapid.SampledFrom(symbols).Draw(t, "symbol"),
			Type:     typ,
			Style:    order.Limit,
			Quantity: decimal.New(rapid.Int64Range(1, 10_000).Draw(t, "qty"), -2),
			Price:    decimal.New(rapid.Int64Range(1, 1_000_000).Draw(t, "price"), -2),
			Status:   order.StatusPlaced,
		})
	}
	return orders
}

func TestProperty_ProjectionIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := drawOrders(t)
		cat := instrument.Default()
		if !reflect.DeepEqual(Project(orders, cat), Project(orders, cat)) {
			t.Fatal("projection of identical input differs")
		}
	})
}

func TestProperty_OnlyPositiveQuantitiesEmitted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		for sym, h := range Project(drawOrders(t), instrument.Default()) {
			if !h.Quantity.IsPositive() {
				t.Fatalf("%s emitted with quantity %s", sym, h.Quantity)
			}
			if h.Symbol != sym {
				t.Fatalf("holding keyed %s has symbol %s", sym, h.Symbol)
			}
		}
	})
}

func TestProperty_AverageWithinBuyPriceRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := drawOrders(t)
		lo := map[string]decimal.Decimal{}
		hi := map[string]decimal.Decimal{}
		for _, o := range orders {
			if o.Type != order.Buy {
				continue
			}
			if cur, ok := lo[o.Symbol]; !ok || o.Price.LessThan(cur) {
				lo[o.Symbol] = o.Price
			}
			if cur, ok := hi[o.Symbol]; !ok || o.Price.GreaterThan(cur) {
				hi[o.Symbol] = o.Price
			}
		}
		for sym, h := range Project(orders, instrument.Default()) {
			if h.AveragePrice.LessThan(lo[sym].Round(2)) || h.AveragePrice.GreaterThan(hi[sym].Round(2)) {
				t.Fatalf("%s average %s outside [%s, %s]", sym, h.AveragePrice, lo[sym], hi[sym])
			}
		}
	})
}

func TestProperty_QuantityMatchesFlooredNetFlow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := drawOrders(t)
		want := map[string]decimal.Decimal{}
		for _, o := range orders {
			q := want[o.Symbol]
			if o.Type == order.Buy {
				q = q.Add(o.Quantity)
			} else {
				q = decimal.Max(decimal.Zero, q.Sub(o.Quantity))
			}
			want[o.Symbol] = q
		}
		got := Project(orders, instrument.Default())
		for sym, q := range want {
			h, ok := got[sym]
			if q.IsZero() {
				if ok {
					t.Fatalf("%s should be absent", sym)
				}
				continue
			}
			if !ok || !h.Quantity.Equal(q) {
				t.Fatalf("%s quantity = %s, want %s", sym, h.Quantity, q)
			}
		}
	})
}
