// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// InventoryHandler handles inventory HTTP endpoints
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// SaveItem handles POST /api/v1/inventory
func (h *InventoryHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation))
		return
	}

	if err := h.service.SaveItem(r.Context(), &item); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// GetItem handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid item id", domain.ErrValidation))
		return
	}

	item, err := h.service.GetItemByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid item id", domain.ErrValidation))
		return
	}

	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation))
		return
	}

	if err := h.service.UpdateItem(r.Context(), id, &item); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/inventory/{id}?hard=true
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid item id", domain.ErrValidation))
		return
	}

	hard := r.URL.Query().Get("hard") == "true"
	if err := h.service.DeleteItem(r.Context(), id, hard); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListItems handles GET /api/v1/inventory
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ports.InventoryListParams{
		Search:    q.Get("search"),
		ItemType:  q.Get("item_type"),
		Category:  q.Get("category"),
		Supplier:  q.Get("supplier"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page:      intQuery(q.Get("page"), 1),
		PageSize:  intQuery(q.Get("page_size"), 50),
	}
	if v := q.Get("low_stock_below"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.LowStockBelow = &n
		}
	}
	if v := q.Get("expiring_days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.ExpiringDays = &n
		}
	}

	result, err := h.service.ListItems(r.Context(), params)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// BulkUpsert handles POST /api/v1/inventory/bulk
func (h *InventoryHandler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var items []domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation))
		return
	}

	result, err := h.service.BulkUpsert(r.Context(), items)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// intQuery parses a positive integer query value with a fallback
func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
