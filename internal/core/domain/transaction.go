// internal/core/domain/transaction.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PatientType represents the care setting of a sale
type PatientType string

const (
	PatientRawatJalan PatientType = "Rawat Jalan"
	PatientRawatInap  PatientType = "Rawat Inap"
)

// PaymentMethod represents how a sale is paid
type PaymentMethod string

const (
	PaymentUmum PaymentMethod = "UMUM"
	PaymentBPJS PaymentMethod = "BPJS"
)

// TransactionItem is one sold line. UnitPrice is a point-in-time copy of
// the item's selling price, not a live reference.
type TransactionItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity times the captured unit price.
func (l TransactionItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Transaction is a sales record. It weakly references inventory by id:
// inventory neither knows which transactions reference it, nor is a
// referenced item prevented from being deleted.
type Transaction struct {
	ID                  uuid.UUID         `json:"id"`
	Date                time.Time         `json:"date"`
	PatientType         PatientType       `json:"patient_type"`
	PaymentMethod       PaymentMethod     `json:"payment_method"`
	MedicalRecordNumber string            `json:"medical_record_number"`
	TotalPrice          decimal.Decimal   `json:"total_price"`
	Items               []TransactionItem `json:"items"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Validate performs domain validation on the transaction
func (t *Transaction) Validate() error {
	if t.PatientType != PatientRawatJalan && t.PatientType != PatientRawatInap {
		return fmt.Errorf("patient_type must be %q or %q", PatientRawatJalan, PatientRawatInap)
	}
	if t.PaymentMethod != PaymentUmum && t.PaymentMethod != PaymentBPJS {
		return fmt.Errorf("payment_method must be %q or %q", PaymentUmum, PaymentBPJS)
	}
	if strings.TrimSpace(t.MedicalRecordNumber) == "" {
		return fmt.Errorf("medical_record_number is required")
	}
	if len(t.Items) == 0 {
		return fmt.Errorf("transaction must have at least one item")
	}
	for i, line := range t.Items {
		if line.ItemID == uuid.Nil {
			return fmt.Errorf("item %d: item_id is required", i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unit_price cannot be negative", i)
		}
	}
	return nil
}

// ComputeTotal recalculates TotalPrice from the line items. TotalPrice is
// derived and never authoritative.
func (t *Transaction) ComputeTotal() {
	total := decimal.Zero
	for _, line := range t.Items {
		total = total.Add(line.Subtotal())
	}
	t.TotalPrice = total
}

// PrepareForStorage assigns an id and timestamps before the first write.
func (t *Transaction) PrepareForStorage() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.Date.IsZero() {
		t.Date = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	t.ComputeTotal()
}

// QuantityByItem folds the lines into a per-item quantity map. Lines
// referencing the same item are summed.
func (t *Transaction) QuantityByItem() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(t.Items))
	for _, line := range t.Items {
		out[line.ItemID] += line.Quantity
	}
	return out
}
