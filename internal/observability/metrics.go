package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Metrics groups the Prometheus collectors for the HTTP surface and the
// load/render pipeline.
type Metrics struct {
	ReqTotal       *prometheus.CounterVec
	ReqDur         *prometheus.HistogramVec
	InFlight       prometheus.Gauge
	LoadTotal      *prometheus.CounterVec
	LoadDur        *prometheus.HistogramVec
	RenderTotal    *prometheus.CounterVec
	RenderDur      *prometheus.HistogramVec
	SSEConnections prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on reg. A nil reg gets a fresh registry
// carrying the Go and process collectors.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{gatherer: reg}
	m.ReqTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled by the server.",
	}, []string{"method", "route", "status"}))
	m.ReqDur = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency distribution in milliseconds.",
		Buckets:   defaultBuckets,
	}, []string{"method", "route"}))
	m.InFlight = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	}))
	m.LoadTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_loads_total",
		Help:      "Order loads by outcome (hit, miss, error).",
	}, []string{"result"}))
	m.LoadDur = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_load_duration_ms",
		Help:      "Order load latency in milliseconds.",
		Buckets:   defaultBuckets,
	}, []string{"result"}))
	m.RenderTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_renders_total",
		Help:      "Dashboard render passes by outcome.",
	}, []string{"result"}))
	m.RenderDur = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_render_duration_ms",
		Help:      "Dashboard render latency in milliseconds.",
		Buckets:   defaultBuckets,
	}, []string{"result"}))
	m.SSEConnections = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sse_open_streams",
		Help:      "Datastar streams currently open.",
	}))
	return m
}

func (m *Metrics) ObserveLoad(result string, d time.Duration) {
	m.LoadTotal.WithLabelValues(result).Inc()
	m.LoadDur.WithLabelValues(result).Observe(DurationMillis(d))
}

func (m *Metrics) ObserveRender(result string, d time.Duration) {
	m.RenderTotal.WithLabelValues(result).Inc()
	m.RenderDur.WithLabelValues(result).Observe(DurationMillis(d))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Instrument wraps a single route so requests are counted under its pattern
// rather than the raw path.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := NewStatusRecorder(w)
		m.InFlight.Inc()
		start := time.Now()
		defer func() {
			m.InFlight.Dec()
			status := strconv.Itoa(recorder.Status())
			m.ReqTotal.WithLabelValues(r.Method, route, status).Inc()
			m.ReqDur.WithLabelValues(r.Method, route).Observe(DurationMillis(time.Since(start)))
		}()
		next.ServeHTTP(recorder, r)
	})
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}

// StatusRecorder wraps ResponseWriter to capture the status code.
type StatusRecorder struct {
	http.ResponseWriter
	status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *StatusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *StatusRecorder) Status() int { return sr.status }

// Flush keeps SSE streams working through the wrapper.
func (sr *StatusRecorder) Flush() {
	if flusher, ok := sr.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (sr *StatusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
