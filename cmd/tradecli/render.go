package main

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/uhyunpark/tradedesk/pkg/app/core/instrument"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/app/core/portfolio"
)

// inr formats an amount in rupees, e.g. ₹1,507.60.
func inr(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.INR)
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), money.INR).Display()
}

func instrumentsMarkdown(insts []instrument.Instrument) string {
	var b strings.Builder
	b.WriteString("# Instruments\n\n")
	b.WriteString("| Symbol | Exchange | Type | Last Price |\n")
	b.WriteString("|:---|:---|:---|---:|\n")
	for _, i := range insts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", i.Symbol, i.Exchange, i.InstrumentType, inr(i.LastTradedPrice))
	}
	return b.String()
}

func portfolioMarkdown(holdings []portfolio.Holding) string {
	var b strings.Builder
	b.WriteString("# Portfolio\n\n")
	if len(holdings) == 0 {
		b.WriteString("No holdings.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Quantity | Avg Price | Current Value |\n")
	b.WriteString("|:---|---:|---:|---:|\n")
	total := decimal.Zero
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Symbol, h.Quantity, inr(h.AveragePrice), inr(h.CurrentValue))
		total = total.Add(h.CurrentValue)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", inr(total))
	return b.String()
}

func tradesMarkdown(trades []order.Order) string {
	var b strings.Builder
	b.WriteString("# Orders\n\n")
	if len(trades) == 0 {
		b.WriteString("No orders.\n")
		return b.String()
	}
	b.WriteString("| Order ID | Symbol | Side | Style | Quantity | Price | Status |\n")
	b.WriteString("|:---|:---|:---|:---|---:|---:|:---|\n")
	for _, o := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			o.OrderID, o.Symbol, o.Type, o.Style, o.Quantity, inr(o.Price), o.Status)
	}
	return b.String()
}

func placedMarkdown(o order.Order) string {
	return fmt.Sprintf("Order **%s** %s: %s %s %s @ %s (%s)\n",
		o.OrderID, o.Status, o.Type, o.Quantity, o.Symbol, inr(o.Price), inr(o.Notional()))
}

func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
