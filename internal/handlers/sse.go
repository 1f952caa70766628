package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, metrics *observability.Metrics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		metrics:   metrics,
		logger:    logger,
	}
}

// chartData is pushed as a local (underscore) signal so the browser keeps it
// without echoing it back on the next request.
type chartData struct {
	KPIs           models.KPIs           `json:"kpis"`
	TopProducts    []models.KeyValue     `json:"topProducts"`
	ProductRevenue []models.KeyValue     `json:"productRevenue"`
	TopCities      []models.KeyValue     `json:"topCities"`
	CountryShares  []models.CountryShare `json:"countryShares"`
	MonthlyTrend   []models.MonthlySales `json:"monthlyTrend"`
}

// HandleDashboard re-renders the dashboard for the selection carried in the
// Datastar signals and patches every fragment in one stream.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var signals DashboardSignals
	readErr := datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)
	if h.metrics != nil {
		h.metrics.SSEConnections.Inc()
		defer h.metrics.SSEConnections.Dec()
	}

	if readErr != nil {
		h.logger.WarnContext(r.Context(), "read signals", "error", readErr)
		h.patchBanner(r.Context(), sse, "Could not read the filter selection.")
		return
	}

	filters, err := signals.Filters()
	if err != nil {
		h.patchBanner(r.Context(), sse, validationMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	d, err := h.analytics.Render(ctx, filters)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "render dashboard", "error", err)
		h.patchBanner(r.Context(), sse, "Data source unavailable. Please try again shortly.")
		return
	}

	view := templates.NewView(d, EncodeFilters(filters), "")
	fragments := []templ.Component{
		templates.ErrorBanner(""),
		templates.KPIs(view),
		templates.Charts(view),
		templates.Preview(view),
		templates.Exports(view),
	}
	for _, fragment := range fragments {
		html, err := templates.RenderString(ctx, fragment)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "render fragment", "error", err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.DebugContext(r.Context(), "patch elements", "error", err)
			return
		}
	}

	payload, err := json.Marshal(map[string]any{
		"_data": chartData{
			KPIs:           d.KPIs,
			TopProducts:    d.TopProducts,
			ProductRevenue: d.ProductRevenue,
			TopCities:      d.TopCities,
			CountryShares:  d.CountryShares,
			MonthlyTrend:   d.MonthlyTrend,
		},
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "marshal chart data", "error", err)
		return
	}
	if err := sse.PatchSignals(payload); err != nil {
		h.logger.DebugContext(r.Context(), "patch signals", "error", err)
	}
}

func (h *SSEHandlers) patchBanner(ctx context.Context, sse *datastar.ServerSentEventGenerator, message string) {
	html, err := templates.RenderString(ctx, templates.ErrorBanner(message))
	if err != nil {
		h.logger.ErrorContext(ctx, "render banner", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.DebugContext(ctx, "patch banner", "error", err)
	}
}

func validationMessage(err error) string {
	return errors.Message(err, "Invalid filter selection.")
}
