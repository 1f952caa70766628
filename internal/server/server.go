package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	metrics      *observability.Metrics
	apiHandlers  *handlers.APIHandlers
	pageHandlers *handlers.PageHandlers
	sseHandlers  *handlers.SSEHandlers
}

// NewServer wires every route. metrics may be nil, in which case routes are
// not instrumented and /metrics is not served.
func NewServer(analytics *services.Analytics, metrics *observability.Metrics, renderer *charts.Renderer, logger *slog.Logger) *Server {
	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		metrics:      metrics,
		apiHandlers:  handlers.NewAPIHandlers(analytics, logger),
		pageHandlers: handlers.NewPageHandlers(analytics, renderer, logger),
		sseHandlers:  handlers.NewSSEHandlers(analytics, metrics, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Page, charts and exports
	s.handle("GET /", s.pageHandlers.HandleIndex)
	s.handle("GET /charts/{file}", s.pageHandlers.HandleChart)
	s.handle("GET /export/orders.csv", s.pageHandlers.HandleExportCSV)
	s.handle("GET /export/orders.xlsx", s.pageHandlers.HandleExportXLSX)

	// Datastar SSE endpoint
	s.handle("GET /sse/dashboard", s.sseHandlers.HandleDashboard)

	// REST API endpoints
	s.handle("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.handle("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.handle("GET /api/top-products", s.apiHandlers.HandleTopProducts)
	s.handle("GET /api/product-revenue", s.apiHandlers.HandleProductRevenue)
	s.handle("GET /api/top-cities", s.apiHandlers.HandleTopCities)
	s.handle("GET /api/country-sales", s.apiHandlers.HandleCountrySales)
	s.handle("GET /api/monthly-sales", s.apiHandlers.HandleMonthlySales)
	s.handle("GET /api/preview", s.apiHandlers.HandlePreview)
	s.handle("GET /api/filters", s.apiHandlers.HandleFilters)

	// Operations
	s.handle("GET /health", s.apiHandlers.HandleHealth)
	s.handle("GET /admin/stats", s.apiHandlers.HandleStats)
	s.handle("POST /admin/cache/clear", s.apiHandlers.HandleCacheClear)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.metrics.Instrument(pattern, h))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
