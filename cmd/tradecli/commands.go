package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/client"
)

type instrumentsCmd struct{}

func (*instrumentsCmd) Name() string     { return "instruments" }
func (*instrumentsCmd) Synopsis() string { return "list tradable instruments and their last traded price" }
func (*instrumentsCmd) Usage() string {
	return `tradecli instruments

  Lists the instrument catalog.
`
}
func (*instrumentsCmd) SetFlags(*flag.FlagSet) {}

func (*instrumentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c, ok := connect(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	insts, err := c.Instruments(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing instruments: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(instrumentsMarkdown(insts))
	return subcommands.ExitSuccess
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display current holdings" }
func (*portfolioCmd) Usage() string {
	return `tradecli portfolio

  Displays holdings with average price and current value.
`
}
func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c, ok := connect(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	holdings, err := c.Portfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(portfolioMarkdown(holdings))
	return subcommands.ExitSuccess
}

type tradesCmd struct{}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list placed orders in the order they were accepted" }
func (*tradesCmd) Usage() string {
	return `tradecli trades
`
}
func (*tradesCmd) SetFlags(*flag.FlagSet) {}

func (*tradesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c, ok := connect(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	trades, err := c.Trades(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(tradesMarkdown(trades))
	return subcommands.ExitSuccess
}

type orderCmd struct{}

func (*orderCmd) Name() string     { return "order" }
func (*orderCmd) Synopsis() string { return "show a single order by id" }
func (*orderCmd) Usage() string {
	return `tradecli order <order-id>
`
}
func (*orderCmd) SetFlags(*flag.FlagSet) {}

func (*orderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one order id is required")
		return subcommands.ExitUsageError
	}
	c, ok := connect(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	o, err := c.Order(ctx, f.Arg(0))
	if client.IsNotFound(err) {
		fmt.Fprintf(os.Stderr, "Order %s not found\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching order: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(tradesMarkdown([]order.Order{o}))
	return subcommands.ExitSuccess
}

// orderFlags is shared by buy and sell.
type orderFlags struct {
	symbol string
	qty    string
	limit  string
}

func (o *orderFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&o.symbol, "symbol", "", "instrument symbol, e.g. TCS")
	f.StringVar(&o.qty, "qty", "", "quantity to trade")
	f.StringVar(&o.limit, "limit", "", "limit price; omit for a MARKET order")
}

func (o *orderFlags) input(typ order.Type) (client.OrderInput, error) {
	if o.symbol == "" {
		return client.OrderInput{}, fmt.Errorf("-symbol is required")
	}
	qty, err := decimal.NewFromString(o.qty)
	if err != nil {
		return client.OrderInput{}, fmt.Errorf("invalid -qty %q", o.qty)
	}
	in := client.OrderInput{Symbol: o.symbol, Type: typ, Style: order.Market, Quantity: qty}
	if o.limit != "" {
		price, err := decimal.NewFromString(o.limit)
		if err != nil {
			return client.OrderInput{}, fmt.Errorf("invalid -limit %q", o.limit)
		}
		in.Style = order.Limit
		in.Price = price
	}
	return in, nil
}

func (o *orderFlags) place(ctx context.Context, typ order.Type) subcommands.ExitStatus {
	in, err := o.input(typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	c, ok := connect(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	placed, err := c.PlaceOrder(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Order rejected: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(placedMarkdown(placed))
	return subcommands.ExitSuccess
}

type buyCmd struct{ orderFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "place a BUY order" }
func (*buyCmd) Usage() string {
	return `tradecli buy -symbol <symbol> -qty <quantity> [-limit <price>]
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *buyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.place(ctx, order.Buy)
}

type sellCmd struct{ orderFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "place a SELL order against current holdings" }
func (*sellCmd) Usage() string {
	return `tradecli sell -symbol <symbol> -qty <quantity> [-limit <price>]
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.place(ctx, order.Sell)
}
