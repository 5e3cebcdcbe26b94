// internal/handlers/transaction_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/internal/handlers"
	"github.com/sehatindo/apotek-be/test/helpers"
	"github.com/sehatindo/apotek-be/test/mocks"
)

func TestTransactionHandler_Create(t *testing.T) {
	lots := helpers.CreateTestInventoryItems(2)

	tests := []struct {
		name           string
		body           func() []byte
		setupMocks     func(*mocks.MockTransactionService)
		expectedStatus int
	}{
		{
			name: "successfully_creates_transaction",
			body: func() []byte {
				payload, _ := json.Marshal(helpers.CreateTestTransaction(lots))
				return payload
			},
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "malformed_json_body",
			body: func() []byte { return []byte(`{"patient_type":`) },
			setupMocks: func(m *mocks.MockTransactionService) {
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient_stock_maps_to_conflict",
			body: func() []byte {
				payload, _ := json.Marshal(helpers.CreateTestTransaction(lots))
				return payload
			},
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(domain.InsufficientStockError(lots[0].ID, lots[0].ItemName, 1, 5))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "retry_budget_exhausted_maps_to_service_unavailable",
			body: func() []byte {
				payload, _ := json.Marshal(helpers.CreateTestTransaction(lots))
				return payload
			},
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(domain.ErrStoreConflict)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "unknown_error_maps_to_internal",
			body: func() []byte {
				payload, _ := json.Marshal(helpers.CreateTestTransaction(lots))
				return payload
			},
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockTransactionService(ctrl)
			handler := handlers.NewTransactionHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/transactions", bytes.NewReader(tt.body()))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
		})
	}
}

func TestTransactionHandler_Update(t *testing.T) {
	lots := helpers.CreateTestInventoryItems(2)
	txnID := uuid.New()

	t.Run("forwards_replacement_and_original_snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockTransactionService(ctrl)
		handler := handlers.NewTransactionHandler(mockService, helpers.TestLogger())

		original := helpers.CreateTestTransaction(lots)
		replacement := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
			tr.Items[0].Quantity = 7
		})

		body, err := json.Marshal(map[string]any{
			"transaction": replacement,
			"original":    original,
		})
		require.NoError(t, err)

		mockService.EXPECT().
			UpdateTransaction(gomock.Any(), txnID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id uuid.UUID, newData, orig *domain.Transaction) error {
				assert.Equal(t, 7, newData.Items[0].Quantity)
				assert.Equal(t, original.MedicalRecordNumber, orig.MedicalRecordNumber)
				require.Len(t, orig.Items, len(original.Items))
				return nil
			})

		req := httptest.NewRequest("PUT", "/api/v1/transactions/"+txnID.String(), bytes.NewReader(body))
		req.SetPathValue("id", txnID.String())
		w := httptest.NewRecorder()

		handler.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("invalid_uuid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockTransactionService(ctrl)
		handler := handlers.NewTransactionHandler(mockService, helpers.TestLogger())

		req := httptest.NewRequest("PUT", "/api/v1/transactions/nope", bytes.NewBufferString(`{}`))
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.Update(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	txnID := uuid.New()

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockTransactionService)
		expectedStatus int
	}{
		{
			name: "successfully_deletes",
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().
					DeleteTransaction(gomock.Any(), txnID).
					Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "not_found",
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().
					DeleteTransaction(gomock.Any(), txnID).
					Return(fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, txnID))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockTransactionService(ctrl)
			handler := handlers.NewTransactionHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("DELETE", "/api/v1/transactions/"+txnID.String(), nil)
			req.SetPathValue("id", txnID.String())
			w := httptest.NewRecorder()

			handler.Delete(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
		})
	}
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("passes_filters_to_service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockTransactionService(ctrl)
		handler := handlers.NewTransactionHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			ListTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, params ports.TransactionListParams) (*ports.TransactionListResult, error) {
				assert.Equal(t, "BPJS", params.PaymentMethod)
				assert.Equal(t, "Rawat Inap", params.PatientType)
				assert.Equal(t, "2025-03-01", params.DateFrom)
				return &ports.TransactionListResult{}, nil
			})

		req := httptest.NewRequest("GET", "/api/v1/transactions", nil)
		q := req.URL.Query()
		q.Set("payment_method", "BPJS")
		q.Set("patient_type", "Rawat Inap")
		q.Set("date_from", "2025-03-01")
		req.URL.RawQuery = q.Encode()
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})
}
