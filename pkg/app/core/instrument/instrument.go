package instrument

import "github.com/shopspring/decimal"

// Instrument is a tradeable security with a reference last-traded price.
type Instrument struct {
	Symbol          string          `json:"symbol"`
	Exchange        string          `json:"exchange"`
	InstrumentType  string          `json:"instrumentType"`
	LastTradedPrice decimal.Decimal `json:"lastTradedPrice"`
}

// Default returns the built-in NSE equity catalog.
func Default() *Catalog {
	c := NewCatalog()
	for _, inst := range []Instrument{
		{Symbol: "RELIANCE", Exchange: "NSE", InstrumentType: "Equity", LastTradedPrice: decimal.RequireFromString("1507.60")},
		{Symbol: "TCS", Exchange: "NSE", InstrumentType: "Equity", LastTradedPrice: decimal.RequireFromString("3204.00")},
		{Symbol: "HDFCBANK", Exchange: "NSE", InstrumentType: "Equity", LastTradedPrice: decimal.RequireFromString("947.00")},
		{Symbol: "INFY", Exchange: "NSE", InstrumentType: "Equity", LastTradedPrice: decimal.RequireFromString("1613.00")},
		{Symbol: "ICICIBANK", Exchange: "NSE", InstrumentType: "Equity", LastTradedPrice: decimal.RequireFromString("1435.00")},
	} {
		if err := c.Register(inst); err != nil {
			panic(err)
		}
	}
	return c
}
