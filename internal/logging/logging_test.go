package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		valid    bool
	}{
		{"debug", LevelDebug, true},
		{"DEBUG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"WARNING", LevelWarn, true},
		{"error", LevelError, true},
		{"unknown", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
		if got := ValidLevel(tt.input); got != tt.valid {
			t.Errorf("ValidLevel(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn %d", 1)
	logger.Error("error %s", "two")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below level were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 1") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error two") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerPrefixAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf, Prefix: "test"})

	logger.WithComponent("history").WithField("past", 2).Info("undo")

	out := buf.String()
	if !strings.Contains(out, "test: undo {component=history, past=2}") {
		t.Errorf("unexpected line: %q", out)
	}
}

func TestLoggerSetLevelSharedWithChildren(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelError, Output: &buf})
	child := root.WithComponent("session")

	child.Info("hidden")
	root.SetLevel(LevelDebug)
	child.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("message logged before level change")
	}
	if !strings.Contains(out, "shown") {
		t.Error("child did not pick up the new level")
	}
	if child.Level() != LevelDebug {
		t.Errorf("child.Level() = %v", child.Level())
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic.
	NullLogger.Info("nothing")
	NullLogger.WithField("a", 1).Error("nothing")
	NullLogger.SetLevel(LevelDebug)
}

func TestOpenFile(t *testing.T) {
	w, err := OpenFile("")
	if err != nil {
		t.Fatalf("OpenFile(\"\"): %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "retext.log")
	w, err = OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger := New(Config{Level: LevelInfo, Output: w})
	logger.Info("to file")
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file content = %q", data)
	}
}
