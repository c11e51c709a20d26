package instrument

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Catalog is the thread-safe instrument registry, keyed by symbol.
// List preserves registration order.
type Catalog struct {
	mu          sync.RWMutex
	instruments map[string]*Instrument
	order       []string
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		instruments: make(map[string]*Instrument),
	}
}

// Register adds an instrument to the catalog
// Returns error if the symbol is empty, already registered, or priced at or below zero
func (c *Catalog) Register(inst Instrument) error {
	if inst.Symbol == "" {
		return fmt.Errorf("cannot register instrument without symbol")
	}
	if !inst.LastTradedPrice.IsPositive() {
		return fmt.Errorf("instrument %s: last traded price must be > 0, got %s", inst.Symbol, inst.LastTradedPrice)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instruments[inst.Symbol]; exists {
		return fmt.Errorf("instrument %s already registered", inst.Symbol)
	}

	c.instruments[inst.Symbol] = &inst
	c.order = append(c.order, inst.Symbol)
	return nil
}

// Get returns a copy of the instrument for symbol
func (c *Catalog) Get(symbol string) (Instrument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	inst, ok := c.instruments[symbol]
	if !ok {
		return Instrument{}, false
	}
	return *inst, true
}

// LastTradedPrice returns the reference price for symbol
func (c *Catalog) LastTradedPrice(symbol string) (decimal.Decimal, bool) {
	inst, ok := c.Get(symbol)
	return inst.LastTradedPrice, ok
}

// List returns all instruments in registration order
func (c *Catalog) List() []Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Instrument, 0, len(c.order))
	for _, sym := range c.order {
		out = append(out, *c.instruments[sym])
	}
	return out
}

// UpdatePrice changes the reference price of a registered instrument.
// Orders already in the ledger keep the price they were accepted at.
func (c *Catalog) UpdatePrice(symbol string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("instrument %s: last traded price must be > 0, got %s", symbol, price)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.instruments[symbol]
	if !ok {
		return fmt.Errorf("instrument %s not found", symbol)
	}
	inst.LastTradedPrice = price
	return nil
}

// Count returns the number of registered instruments
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instruments)
}

// Exists checks if an instrument is registered
func (c *Catalog) Exists(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.instruments[symbol]
	return exists
}
