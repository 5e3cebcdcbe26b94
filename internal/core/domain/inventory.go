// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes medicines from medical supplies
type ItemType string

const (
	TypeObat  ItemType = "Obat"
	TypeAlkes ItemType = "Alkes"
)

// ItemCategory represents pharmacy item categories
type ItemCategory string

// Category constants
const (
	CategoryGenerik    ItemCategory = "generik"
	CategoryPaten      ItemCategory = "paten"
	CategoryAntibiotik ItemCategory = "antibiotik"
	CategoryAnalgesik  ItemCategory = "analgesik"
	CategoryVitamin    ItemCategory = "vitamin"
	CategorySirup      ItemCategory = "sirup"
	CategoryInjeksi    ItemCategory = "injeksi"
	CategorySalep      ItemCategory = "salep"
	CategoryInfus      ItemCategory = "infus"
	CategoryAlatMedis  ItemCategory = "alat_medis"
	CategoryBahanHabis ItemCategory = "bahan_habis_pakai"
	CategoryLainnya    ItemCategory = "lainnya"
)

// InventoryItem represents a single inventory lot. Two lots of the same
// product with different batch numbers are distinct items; the pair
// (ItemName, BatchNumber) is the natural key used by the bulk merger.
type InventoryItem struct {
	ID             uuid.UUID       `json:"id"`
	ItemName       string          `json:"item_name"`
	BatchNumber    string          `json:"batch_number"`
	ItemType       ItemType        `json:"item_type"`
	Category       ItemCategory    `json:"category"`
	Unit           string          `json:"unit"`
	Quantity       int             `json:"quantity"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SellingPriceRJ decimal.Decimal `json:"selling_price_rj"`
	SellingPriceRI decimal.Decimal `json:"selling_price_ri"`
	Supplier       string          `json:"supplier,omitempty"`
	InputDate      time.Time       `json:"input_date"`
	ExpiredDate    time.Time       `json:"expired_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
}

// NaturalKey identifies "the same" inventory lot across merge operations,
// independent of the store-assigned id.
type NaturalKey struct {
	ItemName    string
	BatchNumber string
}

// NaturalKey returns the item's merge key. Comparison is exact after
// trimming surrounding whitespace.
func (i *InventoryItem) NaturalKey() NaturalKey {
	return NaturalKey{
		ItemName:    strings.TrimSpace(i.ItemName),
		BatchNumber: strings.TrimSpace(i.BatchNumber),
	}
}

// Validate performs domain validation on the inventory item
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.ItemName) == "" {
		return fmt.Errorf("item_name is required")
	}
	if strings.TrimSpace(i.BatchNumber) == "" {
		return fmt.Errorf("batch_number is required")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if i.PurchasePrice.IsNegative() {
		return fmt.Errorf("purchase_price cannot be negative")
	}
	if i.SellingPriceRJ.IsNegative() {
		return fmt.Errorf("selling_price_rj cannot be negative")
	}
	if i.SellingPriceRI.IsNegative() {
		return fmt.Errorf("selling_price_ri cannot be negative")
	}
	if i.ItemType != TypeObat && i.ItemType != TypeAlkes {
		return fmt.Errorf("item_type must be %q or %q", TypeObat, TypeAlkes)
	}
	if i.Unit == "" {
		return fmt.Errorf("unit is required")
	}
	if i.Category == "" {
		i.Category = CategoryLainnya
	}
	return nil
}

// PrepareForStorage prepares the item for database storage
func (i *InventoryItem) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	i.ItemName = strings.TrimSpace(i.ItemName)
	i.BatchNumber = strings.TrimSpace(i.BatchNumber)
	i.Supplier = strings.TrimSpace(i.Supplier)

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now

	if i.InputDate.IsZero() {
		i.InputDate = now
	}
}

// IsExpiringWithin reports whether the lot expires inside the given window.
func (i *InventoryItem) IsExpiringWithin(window time.Duration, now time.Time) bool {
	if i.ExpiredDate.IsZero() {
		return false
	}
	return i.ExpiredDate.Before(now.Add(window))
}
