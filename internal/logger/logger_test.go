package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultWriter(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Format: "json"})
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("test message", "card_id", "card-123")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
	assert.Contains(t, buf.String(), "card-123")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{name: "production uses json", environment: "production", wantJSON: true},
		{name: "development uses pretty", environment: "development", wantJSON: false},
		{name: "empty uses pretty", environment: "", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			logger.Info("probe")

			isJSON := strings.HasPrefix(buf.String(), "{")
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	level := slog.LevelWarn
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: level})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "pretty", Writer: &buf})

	logger.Warn("low on cards", "remaining", 2)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "low on cards")
	assert.Contains(t, out, "remaining=2")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(h).With("component", "study")

	logger.Info("session started")

	assert.Contains(t, buf.String(), "component=study")
	assert.Contains(t, buf.String(), "session started")
}
