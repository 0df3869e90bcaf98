package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug/info suppressed at warn level, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn message in output, got: %s", out)
	}
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("bogus", &buf)

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Errorf("expected debug suppressed at default level, got: %s", out)
	}
	if !strings.Contains(out, "info message") {
		t.Errorf("expected info message in output, got: %s", out)
	}
}

func TestSilentLoggerDiscardsEverything(t *testing.T) {
	logger := NewSilentLogger()
	// Must not panic or write anywhere.
	logger.Error().Msg("dropped")
}
