package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

const (
	renderTimeout = 10 * time.Second
	pingTimeout   = 2 * time.Second
	cacheNoStore  = "no-store"
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	started   time.Time
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
		started:   time.Now(),
	}
}

// render parses the filters and runs the pipeline, writing the error response
// itself when either step fails.
func (h *APIHandlers) render(w http.ResponseWriter, r *http.Request) (*models.Dashboard, bool) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	d, err := h.analytics.Render(ctx, filters)
	if err != nil {
		writeError(w, r, h.logger, err)
		return nil, false
	}
	return d, true
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccessWithHeaders(w, d, map[string]string{"Cache-Control": cacheNoStore})
	}
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.KPIs)
	}
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.TopProducts)
	}
}

func (h *APIHandlers) HandleProductRevenue(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.ProductRevenue)
	}
}

func (h *APIHandlers) HandleTopCities(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.TopCities)
	}
}

func (h *APIHandlers) HandleCountrySales(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.CountryShares)
	}
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.MonthlyTrend)
	}
}

func (h *APIHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, d.Preview)
	}
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.render(w, r); ok {
		errors.WriteSuccess(w, map[string]any{
			"selected": d.Filters,
			"options":  d.Options,
		})
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.analytics.Ping(ctx); err != nil {
		writeError(w, r, h.logger, errors.ServiceUnavailableWrap(err, "data source unreachable"))
		return
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	stats, err := h.analytics.Stats(ctx)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, stats)
}

func (h *APIHandlers) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	h.analytics.Invalidate()
	h.logger.InfoContext(r.Context(), "order cache cleared")
	errors.WriteSuccess(w, map[string]string{"status": "cleared"})
}

// writeError maps pipeline failures onto the error taxonomy: store failures
// become 503 so clients can retry.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if stderrors.Is(err, store.ErrSourceUnavailable) || stderrors.Is(err, store.ErrQuery) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			err = errors.ServiceUnavailableWrap(err, "data source unavailable")
		}
	}
	errors.WriteError(r.Context(), w, logger, err)
}
