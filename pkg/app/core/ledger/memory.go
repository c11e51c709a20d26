package ledger

import (
	"sync"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

type MemoryLedger struct {
	mu     sync.RWMutex
	orders []order.Order
	byID   map[string]int
	byUser map[order.UserID][]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		byID:   make(map[string]int),
		byUser: make(map[order.UserID][]int),
	}
}

func (l *MemoryLedger) Append(o order.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byID[o.OrderID]; exists {
		return &DuplicateIDError{ID: o.OrderID}
	}

	idx := len(l.orders)
	l.orders = append(l.orders, o)
	l.byID[o.OrderID] = idx
	l.byUser[o.UserID] = append(l.byUser[o.UserID], idx)
	return nil
}

func (l *MemoryLedger) GetByID(id string) (order.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byID[id]
	if !ok {
		return order.Order{}, order.ErrOrderNotFound
	}
	return l.orders[idx], nil
}

func (l *MemoryLedger) GetByUser(user order.UserID) ([]order.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idxs := l.byUser[user]
	out := make([]order.Order, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, l.orders[i])
	}
	return out, nil
}

func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

func (l *MemoryLedger) Close() error { return nil }

var _ Ledger = (*MemoryLedger)(nil)
