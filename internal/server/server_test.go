package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(metrics *observability.Metrics) *Server {
	qty, price := "2", 11.95
	source := store.NewMemory([]models.RawOrder{{
		OrderID: "176558", Product: "USB-C Charging Cable", QuantityOrdered: &qty, PriceEach: &price,
		OrderDate: time.Date(2019, 4, 19, 8, 46, 0, 0, time.UTC), OrderYear: 2019, OrderMonth: 4,
		OrderMonthName: "April", City: "Dallas", Country: "USA",
	}})
	analytics := services.NewAnalytics(store.NewLoader(source, testLogger()), testLogger())
	return NewServer(analytics, metrics, charts.NewRenderer(testLogger()), testLogger())
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(nil)

	tests := []struct {
		method      string
		path        string
		status      int
		contentType string
	}{
		{"GET", "/", http.StatusOK, "text/html"},
		{"GET", "/sse/dashboard", http.StatusOK, "text/event-stream"},
		{"GET", "/api/dashboard", http.StatusOK, "application/json"},
		{"GET", "/api/kpis", http.StatusOK, "application/json"},
		{"GET", "/api/top-products", http.StatusOK, "application/json"},
		{"GET", "/api/product-revenue", http.StatusOK, "application/json"},
		{"GET", "/api/top-cities", http.StatusOK, "application/json"},
		{"GET", "/api/country-sales", http.StatusOK, "application/json"},
		{"GET", "/api/monthly-sales", http.StatusOK, "application/json"},
		{"GET", "/api/preview", http.StatusOK, "application/json"},
		{"GET", "/api/filters", http.StatusOK, "application/json"},
		{"GET", "/charts/top-cities.svg", http.StatusOK, "image/svg+xml"},
		{"GET", "/export/orders.csv", http.StatusOK, "text/csv"},
		{"GET", "/export/orders.xlsx", http.StatusOK, "spreadsheetml"},
		{"GET", "/health", http.StatusOK, "application/json"},
		{"GET", "/admin/stats", http.StatusOK, "application/json"},
		{"POST", "/admin/cache/clear", http.StatusOK, "application/json"},
		{"GET", "/unknown", http.StatusNotFound, "application/json"},
		{"GET", "/api/kpis?month=13", http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}
			if tt.contentType == "application/json" {
				var result map[string]any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(nil)

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/kpis"},
		{"DELETE", "/health"},
		{"PUT", "/sse/dashboard"},
		{"POST", "/export/orders.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := newTestServer(observability.NewMetrics("sales_dashboard", prometheus.NewRegistry()))

	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/kpis", nil))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, `sales_dashboard_http_requests_total{method="GET",route="GET /api/kpis",status="200"} 1`) {
		t.Errorf("expected request counter for the kpis route, got:\n%s", body)
	}
}

func TestServer_NoMetricsEndpointWhenDisabled(t *testing.T) {
	srv := newTestServer(nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGracefulServer_RunsHooksInReverseOrder(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: 5 * time.Second}}
	gs := NewGracefulServer(&http.Server{Handler: http.NotFoundHandler()}, testLogger(), cfg)

	var order []string
	gs.RegisterShutdownHook("source", func(context.Context) error {
		order = append(order, "source")
		return nil
	})
	gs.RegisterShutdownHook("tracer", func(context.Context) error {
		order = append(order, "tracer")
		return errors.New("flush failed")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()
	cancel()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "flush failed") {
			t.Errorf("expected hook error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if strings.Join(order, ",") != "tracer,source" {
		t.Errorf("hook order = %v, want [tracer source]", order)
	}
}
