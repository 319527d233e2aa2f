package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("sync started", "repos", 3)
	logger.WithRepo("foo").Error("fetch failed", "remote", "origin")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["repo"] != "foo" {
		t.Errorf("repo attr = %v, want foo", entry["repo"])
	}
	if entry["msg"] != "fetch failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelError)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Debug("noise")
	logger.Info("noise")
	logger.Error("signal")

	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(data), "noise") {
		t.Errorf("log should only contain ERROR entries, got %q", string(data))
	}
	if !strings.Contains(string(data), "signal") {
		t.Errorf("log is missing the ERROR entry: %q", string(data))
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Info("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
