package util

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoggerTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	var console bytes.Buffer

	logger, closeLog, err := NewLogger(LogOptions{File: path, Service: "tradedesk", Console: &console})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Sugar().Infow("order_placed", "order_id", "abc")
	logger.Sugar().Debugw("hidden_at_info_level")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for name, out := range map[string]string{"file": string(data), "console": console.String()} {
		if strings.Contains(out, "hidden_at_info_level") {
			t.Errorf("%s: debug entry written at info level: %s", name, out)
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
			t.Fatalf("%s: not one JSON line: %v: %s", name, err, out)
		}
		want := map[string]any{"event": "order_placed", "order_id": "abc", "service": "tradedesk", "level": "INFO"}
		for k, v := range want {
			if entry[k] != v {
				t.Errorf("%s: %s = %v, want %v", name, k, entry[k], v)
			}
		}
		if _, ok := entry["ts"]; !ok {
			t.Errorf("%s: missing ts: %s", name, out)
		}
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	var console bytes.Buffer
	logger, closeLog, err := NewLogger(LogOptions{Verbose: true, Console: &console})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Sugar().Debugw("order_rejected", "kind", "InvalidQuantity")
	_ = closeLog()

	if !strings.Contains(console.String(), `"event":"order_rejected"`) {
		t.Errorf("debug entry missing in verbose mode: %s", console.String())
	}
	if strings.Contains(console.String(), "service") {
		t.Errorf("service field set without Service: %s", console.String())
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var c Clock = FixedClock{T: at}
	if !c.Now().Equal(at) {
		t.Errorf("Now() = %v, want %v", c.Now(), at)
	}
}
