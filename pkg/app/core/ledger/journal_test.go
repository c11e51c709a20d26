package ledger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/util"
)

func TestFileJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.log")
	at := time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC)

	j, err := NewFileJournal(path, util.FixedClock{T: at})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	if err := j.Record("ORDER_PLACED", testOrder("a", 123, "TCS", order.Buy, "2", "3204")); err != nil {
		t.Fatal(err)
	}
	if err := j.Record("ORDER_PLACED", testOrder("b", 123, "TCS", order.Sell, "1", "3204")); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []journalEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e journalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		lines = append(lines, e)
	}

	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Timestamp != "2025-03-01T09:15:00Z" || lines[0].Event != "ORDER_PLACED" {
		t.Errorf("first entry = %+v", lines[0])
	}
	if lines[1].Data.OrderID != "b" || lines[1].Data.Type != order.Sell {
		t.Errorf("second entry = %+v", lines[1])
	}
}

func TestNopJournal(t *testing.T) {
	var j Journal = NopJournal{}
	if err := j.Record("ORDER_PLACED", order.Order{}); err != nil {
		t.Errorf("nop journal returned %v", err)
	}
}
