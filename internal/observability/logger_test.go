package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"sales-dashboard/internal/config"
)

func TestLoggerAddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggerConfig{Level: "debug", Format: "json"}, &buf)

	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(WithRequestID(context.Background(), "req-9"), "op")
	defer span.End()

	logger.With("component", "loader").DebugContext(ctx, "loaded")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if record["request_id"] != "req-9" {
		t.Errorf("request_id = %v", record["request_id"])
	}
	if record["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id = %v", record["trace_id"])
	}
	if record["component"] != "loader" {
		t.Errorf("component = %v", record["component"])
	}
}

func TestLoggerWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggerConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("starting")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "msg=starting") {
		t.Errorf("expected text record, got %q", out)
	}
	if strings.Contains(out, "request_id") || strings.Contains(out, "hidden") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
