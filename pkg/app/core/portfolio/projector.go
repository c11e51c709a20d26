// Package portfolio derives holdings by replaying a user's ledger orders.
package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/tradedesk/pkg/app/core/ledger"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

// PriceSource supplies the live reference price used for CurrentValue.
type PriceSource interface {
	LastTradedPrice(symbol string) (decimal.Decimal, bool)
}

// position is the unrounded running state while folding.
type position struct {
	qty decimal.Decimal
	avg decimal.Decimal
}

// Project folds orders, in slice order, into holdings.
//
// BUY moves the weighted average cost; SELL only reduces quantity, floored
// at zero. Rounding to 2 places happens once, at the end: intermediate
// averages stay unrounded. Symbols whose quantity folds to zero are omitted.
func Project(orders []order.Order, prices PriceSource) map[string]Holding {
	positions := make(map[string]*position)
	for _, o := range orders {
		p, ok := positions[o.Symbol]
		if !ok {
			p = &position{}
			positions[o.Symbol] = p
		}

		switch o.Type {
		case order.Buy:
			cost := p.avg.Mul(p.qty).Add(o.Price.Mul(o.Quantity))
			p.qty = p.qty.Add(o.Quantity)
			if p.qty.IsPositive() {
				p.avg = cost.Div(p.qty)
			}
		case order.Sell:
			p.qty = decimal.Max(decimal.Zero, p.qty.Sub(o.Quantity))
		}
	}

	holdings := make(map[string]Holding, len(positions))
	for symbol, p := range positions {
		if !p.qty.IsPositive() {
			continue
		}
		value := decimal.Zero
		if ltp, ok := prices.LastTradedPrice(symbol); ok {
			value = p.qty.Mul(ltp).Round(2)
		}
		holdings[symbol] = Holding{
			Symbol:       symbol,
			Quantity:     p.qty,
			AveragePrice: p.avg.Round(2),
			CurrentValue: value,
		}
	}
	return holdings
}

// Projector reads a ledger and prices it against the catalog.
// It keeps no state of its own.
type Projector struct {
	ledger ledger.Ledger
	prices PriceSource
}

func NewProjector(l ledger.Ledger, prices PriceSource) *Projector {
	return &Projector{ledger: l, prices: prices}
}

// Portfolio returns the user's current holdings keyed by symbol.
func (p *Projector) Portfolio(user order.UserID) (map[string]Holding, error) {
	orders, err := p.ledger.GetByUser(user)
	if err != nil {
		return nil, fmt.Errorf("load orders for user %s: %w", user, err)
	}
	return Project(orders, p.prices), nil
}

// Holding returns the user's holding in symbol, if any.
func (p *Projector) Holding(user order.UserID, symbol string) (Holding, bool, error) {
	holdings, err := p.Portfolio(user)
	if err != nil {
		return Holding{}, false, err
	}
	h, ok := holdings[symbol]
	return h, ok, nil
}
