// internal/handlers/reports.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// ReportHandler handles report HTTP endpoints
type ReportHandler struct {
	service ports.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ports.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "reports")),
	}
}

// Expiring handles GET /api/v1/reports/expiring?days=90
func (h *ReportHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r.URL.Query().Get("days"), 90)
	items, err := h.service.ExpiringReport(r.Context(), days)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":  days,
		"items": items,
		"count": len(items),
	})
}

// LowStock handles GET /api/v1/reports/low-stock?threshold=10
func (h *ReportHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := intQuery(r.URL.Query().Get("threshold"), 10)
	items, err := h.service.LowStockReport(r.Context(), threshold)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"threshold": threshold,
		"items":     items,
		"count":     len(items),
	})
}

// ABC handles GET /api/v1/reports/abc?date_from=...&date_to=...
func (h *ReportHandler) ABC(w http.ResponseWriter, r *http.Request) {
	from, to, err := periodFromQuery(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	items, err := h.service.ABCAnalysis(r.Context(), from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date_from": from,
		"date_to":   to,
		"items":     items,
	})
}

// Profit handles GET /api/v1/reports/profit?date_from=...&date_to=...
func (h *ReportHandler) Profit(w http.ResponseWriter, r *http.Request) {
	from, to, err := periodFromQuery(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	rows, err := h.service.ProfitReport(r.Context(), from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date_from": from,
		"date_to":   to,
		"rows":      rows,
	})
}

// SupplierComparison handles GET /api/v1/reports/supplier-comparison?item_name=...
func (h *ReportHandler) SupplierComparison(w http.ResponseWriter, r *http.Request) {
	itemName := r.URL.Query().Get("item_name")
	rows, err := h.service.SupplierComparison(r.Context(), itemName)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item_name": itemName,
		"rows":      rows,
	})
}

// BPJS handles GET /api/v1/reports/bpjs?date_from=...&date_to=...
func (h *ReportHandler) BPJS(w http.ResponseWriter, r *http.Request) {
	from, to, err := periodFromQuery(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	summary, err := h.service.BPJSReport(r.Context(), from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// periodFromQuery reads the date_from/date_to range, defaulting to the
// current month. Dates use YYYY-MM-DD; date_to is inclusive.
func periodFromQuery(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	now := time.Now()

	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if v := q.Get("date_from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date_from %q", domain.ErrValidation, v)
		}
		from = parsed
	}
	if v := q.Get("date_to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date_to %q", domain.ErrValidation, v)
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date_to is before date_from", domain.ErrValidation)
	}
	return from, to, nil
}
