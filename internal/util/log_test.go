package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger("debug")
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	logger = NewLogger("invalid")
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", logger.GetLevel())
	}

	logger = NewLogger("")
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info for empty level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "panicsell.log")
	logger := NewLoggerTo(&buf, "info", path)
	logger.Info().Str("mint", "AAA").Msg("quoted")

	if !strings.Contains(buf.String(), `"mint":"AAA"`) {
		t.Fatalf("expected console output, got %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "quoted") {
		t.Fatalf("expected file output, got %q", string(data))
	}
}
