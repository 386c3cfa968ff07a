package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/dictlookup/internal/config"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestNew_Stderr(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger == nil {
		t.Fatal("New returned nil logger")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dictlookup.log")
	logger, err := New(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("lookup served")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "lookup served") {
		t.Errorf("Log file does not contain message: %s", content)
	}
}
