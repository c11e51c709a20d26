package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/util"
)

// Journal is an audit trail of accepted orders. It is write-only:
// the ledger is never rebuilt from it.
type Journal interface {
	Record(event string, o order.Order) error
}

type NopJournal struct{}

func (NopJournal) Record(string, order.Order) error { return nil }

// journalEntry is one JSON line in the journal file.
type journalEntry struct {
	Timestamp string      `json:"timestamp"`
	Event     string      `json:"event"`
	Data      order.Order `json:"data"`
}

type FileJournal struct {
	mu    sync.Mutex
	f     *os.File
	clock util.Clock
}

func NewFileJournal(path string, clock util.Clock) (*FileJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = util.RealClock{}
	}
	return &FileJournal{f: f, clock: clock}, nil
}

func (j *FileJournal) Record(event string, o order.Order) error {
	line, err := json.Marshal(journalEntry{
		Timestamp: j.clock.Now().UTC().Format(time.RFC3339),
		Event:     event,
		Data:      o,
	})
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

func (j *FileJournal) Close() error { return j.f.Close() }

var _ Journal = NopJournal{}
var _ Journal = (*FileJournal)(nil)
