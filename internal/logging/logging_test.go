package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("grid generated", "lines", 8)

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "grid generated" || record["lines"] != float64(8) {
		t.Errorf("unexpected record %v", record)
	}

	buf.Reset()
	New(&buf, "info", "text").Info("grid generated", "lines", 8)
	if !strings.Contains(buf.String(), "msg=\"grid generated\"") || !strings.Contains(buf.String(), "lines=8") {
		t.Errorf("unexpected text record %q", buf.String())
	}
}

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := Writer(New(&buf, "debug", "text"), slog.LevelWarn)

	fmt.Fprintf(w, "Error loading file: %v\n", "boom")
	fmt.Fprint(w, "\n")

	out := buf.String()
	if n := strings.Count(out, "\n"); n != 1 {
		t.Fatalf("expected one record, got %d: %q", n, out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "Error loading file: boom") {
		t.Errorf("unexpected record %q", out)
	}
}
