package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"sales-dashboard/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Error   map[string]any `json:"error"`
		Success bool           `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestWriteError_StatusMapping(t *testing.T) {
	ctx := observability.WithRequestID(context.Background(), "req-1")
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{Validation("month must be an integer"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{NotFound("unknown chart"), http.StatusNotFound, "NOT_FOUND"},
		{RateLimit("slow down"), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{ServiceUnavailableWrap(fmt.Errorf("dial tcp"), "data source unavailable"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{fmt.Errorf("render: %w", NotFound("wrapped")), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("plain failure"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(ctx, rr, discardLogger(), tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			body := decodeError(t, rr)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, "req-1", body["request_id"])
		})
	}
}

func TestWriteError_HidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(context.Background(), rr, discardLogger(), fmt.Errorf("password=hunter2"))
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.NotContains(t, rr.Body.String(), "request_id")
	assert.NotContains(t, rr.Body.String(), "trace_id")
}

func TestWriteError_IncludesTraceID(t *testing.T) {
	ctx, span := sdktrace.NewTracerProvider().Tracer("test").Start(context.Background(), "GET /api/kpis")
	defer span.End()

	rr := httptest.NewRecorder()
	WriteError(ctx, rr, discardLogger(), Validation("bad month"))
	assert.Equal(t, span.SpanContext().TraceID().String(), decodeError(t, rr)["trace_id"])
}

func TestWriteError_DoesNotMutateError(t *testing.T) {
	shared := NotFound("page not found")
	WriteError(observability.WithRequestID(context.Background(), "a"), httptest.NewRecorder(), discardLogger(), shared)
	assert.Empty(t, shared.RequestID)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("root")
	err := ServiceUnavailableWrap(cause, "down")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by: root")
	assert.Equal(t, "NOT_FOUND: gone", NotFound("gone").Error())
}

func TestUnknownCodeIsInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, New("TEAPOT", "short and stout").StatusCode)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "bad month", Message(fmt.Errorf("parse: %w", Validation("bad month")), "fallback"))
	assert.Equal(t, "fallback", Message(fmt.Errorf("plain"), "fallback"))
}

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccessWithHeaders(rr, map[string]int{"rows": 3}, map[string]string{"Cache-Control": "no-store"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"data":{"rows":3},"success":true}`, rr.Body.String())
}

func TestWriteSuccess_EncodeFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccess(rr, math.NaN())
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
