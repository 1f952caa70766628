package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const chartCacheControl = "private, max-age=60"

// PageHandlers serve the HTML page, the SVG charts it embeds and the exports.
type PageHandlers struct {
	analytics *services.Analytics
	charts    *charts.Renderer
	logger    *slog.Logger
	now       func() time.Time
}

func NewPageHandlers(analytics *services.Analytics, renderer *charts.Renderer, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		charts:    renderer,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *PageHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, h.logger, errors.NotFound("page not found"))
		return
	}

	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	d, err := h.analytics.Render(ctx, filters)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view := templates.NewView(d, EncodeFilters(filters), SignalsFor(d.Filters).JSON())

	var buf bytes.Buffer
	if err := templates.Page(view).Render(ctx, &buf); err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "render error"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheNoStore)
	buf.WriteTo(w)
}

func (h *PageHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := charts.ParseKind(strings.TrimSuffix(r.PathValue("file"), ".svg"))
	if !ok || !strings.HasSuffix(r.PathValue("file"), ".svg") {
		writeError(w, r, h.logger, errors.NotFound(fmt.Sprintf("unknown chart %q", r.PathValue("file"))))
		return
	}

	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	d, err := h.analytics.Render(ctx, filters)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := h.charts.Render(&buf, kind, d); err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "chart render error"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", chartCacheControl)
	buf.WriteTo(w)
}

func (h *PageHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", export.WriteCSV)
}

func (h *PageHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX)
}

func (h *PageHandlers) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, []models.Order) error) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	orders, _, err := h.analytics.FilteredOrders(ctx, filters)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, orders); err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "export failed"))
		return
	}

	h.logger.Info("orders exported", "format", ext, "rows", len(orders))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(ext, h.now())))
	w.Header().Set("Cache-Control", cacheNoStore)
	buf.WriteTo(w)
}
