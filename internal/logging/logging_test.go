package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level    string
		verbose  bool
		expected zapcore.Level
	}{
		{"", false, zapcore.InfoLevel},
		{"warn", false, zapcore.WarnLevel},
		{"error", true, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		logger, err := New(tt.level, tt.verbose, filepath.Join(t.TempDir(), "log.json"))
		if err != nil {
			t.Fatalf("New(%q, %v) failed: %v", tt.level, tt.verbose, err)
		}
		if got := logger.Level(); got != tt.expected {
			t.Errorf("New(%q, %v) level = %s, expected %s", tt.level, tt.verbose, got, tt.expected)
		}
	}

	if _, err := New("loud", false, ""); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vizzu-builder.log")
	logger, err := New("info", false, path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("Expected log line in file, got %q", data)
	}
}
