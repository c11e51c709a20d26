package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

// PebbleLedger stores orders in a Pebble database on an in-memory
// filesystem. The order record and its user index entry are committed in
// one batch, so readers never see one without the other.
type PebbleLedger struct {
	db *pebble.DB

	mu  sync.Mutex // serialises Append: duplicate check + seq allocation
	seq uint64
	n   int
}

func NewPebbleLedger() (*PebbleLedger, error) {
	db, err := pebble.Open("ledger", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble ledger: %w", err)
	}
	return &PebbleLedger{db: db}, nil
}

func (l *PebbleLedger) Close() error { return l.db.Close() }

func (l *PebbleLedger) Append(o order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch _, closer, err := l.db.Get(orderKey(o.OrderID)); {
	case err == nil:
		closer.Close()
		return &DuplicateIDError{ID: o.OrderID}
	case !errors.Is(err, pebble.ErrNotFound):
		return fmt.Errorf("failed to check order: %w", err)
	}

	l.seq++
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.Set(orderKey(o.OrderID), data, nil); err != nil {
		return fmt.Errorf("failed to stage order: %w", err)
	}
	if err := b.Set(userOrderKey(o.UserID, l.seq), []byte(o.OrderID), nil); err != nil {
		return fmt.Errorf("failed to stage user index: %w", err)
	}
	if err := b.Commit(pebble.NoSync); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	l.n++
	return nil
}

func (l *PebbleLedger) GetByID(id string) (order.Order, error) {
	data, closer, err := l.db.Get(orderKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return order.Order{}, order.ErrOrderNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	defer closer.Close()

	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return order.Order{}, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return o, nil
}

func (l *PebbleLedger) GetByUser(user order.UserID) ([]order.Order, error) {
	// A snapshot keeps index entries and order records consistent with
	// each other while the scan runs.
	snap := l.db.NewSnapshot()
	defer snap.Close()

	prefix := userPrefix(user)
	iter, err := snap.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan user orders: %w", err)
	}
	defer iter.Close()

	orders := []order.Order{}
	for iter.First(); iter.Valid(); iter.Next() {
		data, closer, err := snap.Get(orderKey(string(iter.Value())))
		if err != nil {
			return nil, fmt.Errorf("failed to load order %s: %w", iter.Value(), err)
		}
		var o order.Order
		err = json.Unmarshal(data, &o)
		closer.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, iter.Error()
}

func (l *PebbleLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

var _ Ledger = (*PebbleLedger)(nil)
