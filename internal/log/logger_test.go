package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentWorker,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("statement exported", FieldParticipantID, "p1")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("log line missing component: %s", out)
	}
	if !strings.Contains(out, "participant_id=p1") {
		t.Errorf("log line missing attribute: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	scoped := logger.WithComponent(ComponentAMQP)
	if scoped.Component() != ComponentAMQP {
		t.Errorf("Component() = %q, want %q", scoped.Component(), ComponentAMQP)
	}
}

func TestFromContextFallsBack(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil || logger.Logger == nil {
		t.Fatal("FromContext should never return nil")
	}
	if logger.Component() != ComponentApp {
		t.Errorf("fallback component = %q, want %q", logger.Component(), ComponentApp)
	}
}
