// internal/handlers/transaction.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// TransactionHandler handles sales transaction HTTP endpoints
type TransactionHandler struct {
	service ports.TransactionService
	logger  *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service ports.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "transaction")),
	}
}

// updateRequest carries the replacement data along with the original
// line items the client is editing. The original fixes what to revert,
// independent of any concurrent edits to the stored record.
type updateRequest struct {
	Transaction domain.Transaction `json:"transaction"`
	Original    domain.Transaction `json:"original"`
}

// Create handles POST /api/v1/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var txn domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation))
		return
	}

	if err := h.service.CreateTransaction(r.Context(), &txn); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

// Update handles PUT /api/v1/transactions/{id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid transaction id", domain.ErrValidation))
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation))
		return
	}

	if err := h.service.UpdateTransaction(r.Context(), id, &req.Transaction, &req.Original); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, req.Transaction)
}

// Delete handles DELETE /api/v1/transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid transaction id", domain.ErrValidation))
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Get handles GET /api/v1/transactions/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid transaction id", domain.ErrValidation))
		return
	}

	txn, err := h.service.GetTransactionByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

// List handles GET /api/v1/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ports.TransactionListParams{
		PatientType:   q.Get("patient_type"),
		PaymentMethod: q.Get("payment_method"),
		MedicalRecord: q.Get("medical_record_number"),
		DateFrom:      q.Get("date_from"),
		DateTo:        q.Get("date_to"),
		SortOrder:     q.Get("sort_order"),
		Page:          intQuery(q.Get("page"), 1),
		PageSize:      intQuery(q.Get("page_size"), 50),
	}

	result, err := h.service.ListTransactions(r.Context(), params)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
