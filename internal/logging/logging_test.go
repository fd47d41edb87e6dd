package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatJSON, slog.LevelInfo)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("wizard created", "wizard_id", "w1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["msg"] != "wizard created" || entry["wizard_id"] != "w1" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatText, slog.LevelDebug)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Debug("slots derived", "day", "monday")

	out := buf.String()
	if !strings.Contains(out, "slots derived") || !strings.Contains(out, "monday") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
