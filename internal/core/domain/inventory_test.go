// internal/core/domain/inventory_test.go
package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

func validItem() *domain.InventoryItem {
	return &domain.InventoryItem{
		ItemName:       "Paracetamol 500mg",
		BatchNumber:    "B0011234",
		ItemType:       domain.TypeObat,
		Category:       domain.CategoryGenerik,
		Unit:           "tablet",
		Quantity:       100,
		PurchasePrice:  decimal.NewFromInt(350),
		SellingPriceRJ: decimal.NewFromInt(450),
		SellingPriceRI: decimal.NewFromInt(400),
		ExpiredDate:    time.Now().AddDate(1, 0, 0),
	}
}

func TestInventoryItem_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*domain.InventoryItem)
		expectedError string
	}{
		{
			name:   "valid_item",
			mutate: func(i *domain.InventoryItem) {},
		},
		{
			name:          "missing_item_name",
			mutate:        func(i *domain.InventoryItem) { i.ItemName = "  " },
			expectedError: "item_name is required",
		},
		{
			name:          "missing_batch_number",
			mutate:        func(i *domain.InventoryItem) { i.BatchNumber = "" },
			expectedError: "batch_number is required",
		},
		{
			name:          "negative_quantity",
			mutate:        func(i *domain.InventoryItem) { i.Quantity = -1 },
			expectedError: "quantity cannot be negative",
		},
		{
			name:          "negative_purchase_price",
			mutate:        func(i *domain.InventoryItem) { i.PurchasePrice = decimal.NewFromInt(-10) },
			expectedError: "purchase_price cannot be negative",
		},
		{
			name:          "invalid_item_type",
			mutate:        func(i *domain.InventoryItem) { i.ItemType = "Racun" },
			expectedError: "item_type",
		},
		{
			name:          "missing_unit",
			mutate:        func(i *domain.InventoryItem) { i.Unit = "" },
			expectedError: "unit is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)

			err := item.Validate()

			if tt.expectedError == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			}
		})
	}
}

func TestInventoryItem_Validate_DefaultsCategory(t *testing.T) {
	item := validItem()
	item.Category = ""

	require.NoError(t, item.Validate())
	assert.Equal(t, domain.CategoryLainnya, item.Category)
}

func TestInventoryItem_NaturalKey(t *testing.T) {
	item := validItem()
	item.ItemName = "  Paracetamol 500mg "
	item.BatchNumber = " B0011234  "

	key := item.NaturalKey()

	assert.Equal(t, "Paracetamol 500mg", key.ItemName)
	assert.Equal(t, "B0011234", key.BatchNumber)
}

func TestInventoryItem_PrepareForStorage(t *testing.T) {
	t.Run("assigns_id_and_timestamps", func(t *testing.T) {
		item := validItem()
		require.Equal(t, uuid.Nil, item.ID)

		item.PrepareForStorage()

		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.False(t, item.CreatedAt.IsZero())
		assert.False(t, item.UpdatedAt.IsZero())
		assert.False(t, item.InputDate.IsZero())
	})

	t.Run("preserves_existing_id_and_created_at", func(t *testing.T) {
		item := validItem()
		id := uuid.New()
		created := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		item.ID = id
		item.CreatedAt = created

		item.PrepareForStorage()

		assert.Equal(t, id, item.ID)
		assert.Equal(t, created, item.CreatedAt)
	})

	t.Run("trims_text_fields", func(t *testing.T) {
		item := validItem()
		item.ItemName = "  Amoxicillin "
		item.Supplier = " PT Kimia Farma  "

		item.PrepareForStorage()

		assert.Equal(t, "Amoxicillin", item.ItemName)
		assert.Equal(t, "PT Kimia Farma", item.Supplier)
	})
}

func TestInventoryItem_IsExpiringWithin(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expired  time.Time
		window   time.Duration
		expected bool
	}{
		{
			name:     "expires_inside_window",
			expired:  now.AddDate(0, 0, 30),
			window:   90 * 24 * time.Hour,
			expected: true,
		},
		{
			name:     "expires_outside_window",
			expired:  now.AddDate(1, 0, 0),
			window:   90 * 24 * time.Hour,
			expected: false,
		},
		{
			name:     "already_expired",
			expired:  now.AddDate(0, 0, -5),
			window:   90 * 24 * time.Hour,
			expected: true,
		},
		{
			name:     "zero_expiry_never_flags",
			expired:  time.Time{},
			window:   90 * 24 * time.Hour,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			item.ExpiredDate = tt.expired

			assert.Equal(t, tt.expected, item.IsExpiringWithin(tt.window, now))
		})
	}
}
