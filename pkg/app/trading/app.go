// Package trading wires the catalog, ledger, and projector into the order
// entry service.
package trading

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uhyunpark/tradedesk/pkg/app/core/instrument"
	"github.com/uhyunpark/tradedesk/pkg/app/core/ledger"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/app/core/portfolio"
)

// MaxIDAttempts bounds the order-ID collision retry loop.
const MaxIDAttempts = 8

type App struct {
	catalog   *instrument.Catalog
	ledger    ledger.Ledger
	projector *portfolio.Projector

	// Optional collaborators, set after NewApp.
	Logger  *zap.SugaredLogger
	Journal ledger.Journal
	NewID   func() string

	// OnOrderPlaced is called after each successful append, outside the user lock.
	OnOrderPlaced func(o order.Order)

	locksMu   sync.Mutex
	userLocks map[order.UserID]*sync.Mutex
}

func NewApp(catalog *instrument.Catalog, l ledger.Ledger) *App {
	return &App{
		catalog:   catalog,
		ledger:    l,
		projector: portfolio.NewProjector(l, catalog),
		Logger:    zap.NewNop().Sugar(),
		Journal:   ledger.NopJournal{},
		NewID:     uuid.NewString,
		userLocks: make(map[order.UserID]*sync.Mutex),
	}
}

// lockUser serialises validate+append per user. This closes the SELL race
// where two concurrent sells both pass the holdings check.
func (a *App) lockUser(user order.UserID) func() {
	a.locksMu.Lock()
	mu, ok := a.userLocks[user]
	if !ok {
		mu = &sync.Mutex{}
		a.userLocks[user] = mu
	}
	a.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func (a *App) Catalog() *instrument.Catalog { return a.catalog }

// Instruments lists the catalog in registration order.
func (a *App) Instruments() []instrument.Instrument {
	return a.catalog.List()
}

// GetOrder returns order.ErrOrderNotFound for unknown IDs.
func (a *App) GetOrder(id string) (order.Order, error) {
	return a.ledger.GetByID(id)
}

// Trades returns the user's orders in acceptance order.
func (a *App) Trades(user order.UserID) ([]order.Order, error) {
	return a.ledger.GetByUser(user)
}

func (a *App) Portfolio(user order.UserID) (map[string]portfolio.Holding, error) {
	return a.projector.Portfolio(user)
}
