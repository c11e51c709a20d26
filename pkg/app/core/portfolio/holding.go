package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Holding is a derived position for one symbol. It is never stored.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// Sorted returns the holdings ordered by symbol.
func Sorted(holdings map[string]Holding) []Holding {
	out := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// TotalValue sums CurrentValue over all holdings.
func TotalValue(holdings map[string]Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.CurrentValue)
	}
	return total
}
