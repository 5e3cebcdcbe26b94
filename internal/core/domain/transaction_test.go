// internal/core/domain/transaction_test.go
package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

func validTransaction() *domain.Transaction {
	return &domain.Transaction{
		PatientType:         domain.PatientRawatJalan,
		PaymentMethod:       domain.PaymentUmum,
		MedicalRecordNumber: "MR100001",
		Items: []domain.TransactionItem{
			{
				ItemID:    uuid.New(),
				ItemName:  "Paracetamol 500mg",
				Quantity:  2,
				UnitPrice: decimal.NewFromInt(450),
			},
		},
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*domain.Transaction)
		expectedError string
	}{
		{
			name:   "valid_transaction",
			mutate: func(tr *domain.Transaction) {},
		},
		{
			name:          "invalid_patient_type",
			mutate:        func(tr *domain.Transaction) { tr.PatientType = "Gawat Darurat" },
			expectedError: "patient_type",
		},
		{
			name:          "invalid_payment_method",
			mutate:        func(tr *domain.Transaction) { tr.PaymentMethod = "ASURANSI" },
			expectedError: "payment_method",
		},
		{
			name:          "missing_medical_record",
			mutate:        func(tr *domain.Transaction) { tr.MedicalRecordNumber = "  " },
			expectedError: "medical_record_number is required",
		},
		{
			name:          "no_line_items",
			mutate:        func(tr *domain.Transaction) { tr.Items = nil },
			expectedError: "at least one item",
		},
		{
			name: "line_missing_item_id",
			mutate: func(tr *domain.Transaction) {
				tr.Items[0].ItemID = uuid.Nil
			},
			expectedError: "item_id is required",
		},
		{
			name: "line_zero_quantity",
			mutate: func(tr *domain.Transaction) {
				tr.Items[0].Quantity = 0
			},
			expectedError: "quantity must be positive",
		},
		{
			name: "line_negative_unit_price",
			mutate: func(tr *domain.Transaction) {
				tr.Items[0].UnitPrice = decimal.NewFromInt(-50)
			},
			expectedError: "unit_price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trx := validTransaction()
			tt.mutate(trx)

			err := trx.Validate()

			if tt.expectedError == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			}
		})
	}
}

func TestTransaction_ComputeTotal(t *testing.T) {
	trx := validTransaction()
	trx.Items = []domain.TransactionItem{
		{ItemID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(450)},
		{ItemID: uuid.New(), Quantity: 3, UnitPrice: decimal.NewFromFloat(1250.50)},
	}
	// Stale value must be overwritten, not accumulated
	trx.TotalPrice = decimal.NewFromInt(999999)

	trx.ComputeTotal()

	expected := decimal.NewFromFloat(4651.50)
	assert.True(t, trx.TotalPrice.Equal(expected),
		"expected %s, got %s", expected, trx.TotalPrice)
}

func TestTransaction_ComputeTotal_Empty(t *testing.T) {
	trx := &domain.Transaction{}
	trx.ComputeTotal()
	assert.True(t, trx.TotalPrice.IsZero())
}

func TestTransactionItem_Subtotal(t *testing.T) {
	line := domain.TransactionItem{Quantity: 4, UnitPrice: decimal.NewFromFloat(125.25)}
	assert.True(t, line.Subtotal().Equal(decimal.NewFromInt(501)))
}

func TestTransaction_QuantityByItem(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()

	trx := validTransaction()
	trx.Items = []domain.TransactionItem{
		{ItemID: itemA, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ItemID: itemB, Quantity: 1, UnitPrice: decimal.NewFromInt(200)},
		{ItemID: itemA, Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
	}

	quantities := trx.QuantityByItem()

	require.Len(t, quantities, 2)
	assert.Equal(t, 5, quantities[itemA])
	assert.Equal(t, 1, quantities[itemB])
}

func TestTransaction_PrepareForStorage(t *testing.T) {
	trx := validTransaction()
	require.Equal(t, uuid.Nil, trx.ID)

	trx.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, trx.ID)
	assert.False(t, trx.Date.IsZero())
	assert.False(t, trx.CreatedAt.IsZero())
	assert.True(t, trx.TotalPrice.Equal(decimal.NewFromInt(900)))
}
