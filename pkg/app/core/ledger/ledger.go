// Package ledger is the append-only store of accepted orders.
//
// Every backend keeps per-user insertion order, since portfolio averages
// depend on replaying orders in the sequence they were accepted.
package ledger

import (
	"fmt"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

// Ledger is implemented by every order store. There is no update or delete.
// Each method is atomic on its own; callers needing read-then-append
// atomicity must serialise themselves.
type Ledger interface {
	// Append stores o. It fails if o.OrderID is already present.
	Append(o order.Order) error
	// GetByID returns order.ErrOrderNotFound for unknown IDs.
	GetByID(id string) (order.Order, error)
	// GetByUser returns the user's orders in insertion order.
	GetByUser(user order.UserID) ([]order.Order, error)
	// Len is the total number of orders stored.
	Len() int
	Close() error
}

const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
)

// Open creates an empty ledger for the named backend.
func Open(backend string) (Ledger, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryLedger(), nil
	case BackendPebble:
		return NewPebbleLedger()
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}

// DuplicateIDError is returned when appending an order whose ID is taken.
type DuplicateIDError struct{ ID string }

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("order %s already in ledger", e.ID)
}
