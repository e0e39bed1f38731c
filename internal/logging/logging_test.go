package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected JSON warn entry, got %q", out)
	}
}

func TestNewLoggerNilWriter(t *testing.T) {
	logger := New(nil, Options{})
	logger.Error("dropped")
}

func TestHistoryRecordAndRead(t *testing.T) {
	base := t.TempDir()
	dataFile := filepath.Join(t.TempDir(), "My Tasks.json")

	h, err := NewHistory(base, dataFile)
	if err != nil {
		t.Fatalf("NewHistory failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(h.Dir), "My_Tasks-") {
		t.Errorf("Dir = %q, want slug of data file", h.Dir)
	}
	wantDir, err := FindLogDir(base, dataFile)
	if err != nil {
		t.Fatal(err)
	}
	if h.Dir != wantDir {
		t.Errorf("Dir = %q, FindLogDir = %q", h.Dir, wantDir)
	}

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time { return fixed }
	if err := h.Record(Entry{Input: "todo a", OK: true, Lines: []string{"added"}}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := h.Record(Entry{Input: "blah", Error: "unknown", Lines: []string{"oops"}}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := h.Record(Entry{Input: "ignored"}); err != nil {
		t.Errorf("Record after Close should be a no-op, got %v", err)
	}

	entries, err := ReadEntries(h.LogPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].Time.Equal(fixed) || !entries[0].OK || entries[0].Input != "todo a" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].OK || entries[1].Error != "unknown" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestNilHistoryIsNoop(t *testing.T) {
	var h *History
	if err := h.Record(Entry{Input: "x"}); err != nil {
		t.Errorf("Record on nil history: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close on nil history: %v", err)
	}
}

func TestFindLogDirEmptyBase(t *testing.T) {
	if _, err := FindLogDir("", "duke.json"); err == nil {
		t.Fatal("expected error for empty base dir")
	}
	if _, err := NewHistory(" ", "duke.json"); err == nil {
		t.Fatal("expected error for blank base dir")
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "absent"))
		if err != nil || got != "" {
			t.Errorf("FindLatestLog = %q, %v; want empty, nil", got, err)
		}
	})

	t.Run("picks newest jsonl", func(t *testing.T) {
		dir := t.TempDir()
		older := filepath.Join(dir, "a.jsonl")
		newer := filepath.Join(dir, "b.jsonl")
		other := filepath.Join(dir, "c.txt")
		for _, p := range []string{older, newer, other} {
			if err := os.WriteFile(p, []byte("{}\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(older, past, past); err != nil {
			t.Fatal(err)
		}

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatalf("FindLatestLog failed: %v", err)
		}
		if got != newer {
			t.Errorf("FindLatestLog = %q, want %q", got, newer)
		}
	})
}

func TestWriteEntries(t *testing.T) {
	entries := []Entry{
		{Time: time.Now(), Input: "todo a", Lines: []string{"one"}},
		{Time: time.Now(), Input: "todo b", Lines: []string{"two"}},
		{Time: time.Now(), Input: "list", Lines: []string{"three", "four"}},
	}

	var all bytes.Buffer
	if err := WriteEntries(&all, entries, 0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(all.String(), "> todo a") || !strings.Contains(all.String(), "four") {
		t.Errorf("full transcript missing entries: %q", all.String())
	}

	var last bytes.Buffer
	if err := WriteEntries(&last, entries, 1); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(last.String(), "todo a") || !strings.Contains(last.String(), "> list") {
		t.Errorf("last-1 transcript = %q", last.String())
	}
}
