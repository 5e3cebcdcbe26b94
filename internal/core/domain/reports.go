// internal/core/domain/reports.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpiringItem is one row of the expiry report
type ExpiringItem struct {
	ID          uuid.UUID `json:"id"`
	ItemName    string    `json:"item_name"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	ExpiredDate time.Time `json:"expired_date"`
	DaysLeft    int       `json:"days_left"`
}

// LowStockItem is one row of the low stock report
type LowStockItem struct {
	ID       uuid.UUID `json:"id"`
	ItemName string    `json:"item_name"`
	Unit     string    `json:"unit"`
	Quantity int       `json:"quantity"`
	Supplier string    `json:"supplier"`
}

// ABCClass buckets items by their share of sales value
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

// ABCItem is one row of the ABC analysis report
type ABCItem struct {
	ItemID     uuid.UUID       `json:"item_id"`
	ItemName   string          `json:"item_name"`
	SalesValue decimal.Decimal `json:"sales_value"`
	Share      decimal.Decimal `json:"share"`
	Cumulative decimal.Decimal `json:"cumulative"`
	Class      ABCClass        `json:"class"`
}

// ItemSales is the raw per-item sales aggregate the ABC report is built from
type ItemSales struct {
	ItemID     uuid.UUID       `json:"item_id"`
	ItemName   string          `json:"item_name"`
	SalesValue decimal.Decimal `json:"sales_value"`
}

// ProfitRow is one row of the profit report, grouped per item
type ProfitRow struct {
	ItemID        uuid.UUID       `json:"item_id"`
	ItemName      string          `json:"item_name"`
	UnitsSold     int             `json:"units_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
	CostOfGoods   decimal.Decimal `json:"cost_of_goods"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// SupplierPriceRow compares purchase prices for the same item name
// across suppliers
type SupplierPriceRow struct {
	ItemName      string          `json:"item_name"`
	Supplier      string          `json:"supplier"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	BatchNumber   string          `json:"batch_number"`
	InputDate     time.Time       `json:"input_date"`
}

// BPJSSummary aggregates sales split by payment method for claim reporting
type BPJSSummary struct {
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	BPJSCount        int             `json:"bpjs_count"`
	BPJSTotal        decimal.Decimal `json:"bpjs_total"`
	UmumCount        int             `json:"umum_count"`
	UmumTotal        decimal.Decimal `json:"umum_total"`
	RawatInapCount   int             `json:"rawat_inap_count"`
	RawatJalanCount  int             `json:"rawat_jalan_count"`
	TransactionCount int             `json:"transaction_count"`
}

// DashboardStats is the aggregate view served on the dashboard endpoint
type DashboardStats struct {
	TotalItems        int64           `json:"total_items"`
	TotalStockUnits   int64           `json:"total_stock_units"`
	StockValue        decimal.Decimal `json:"stock_value"`
	ExpiringSoon      int64           `json:"expiring_soon"`
	LowStock          int64           `json:"low_stock"`
	SalesToday        decimal.Decimal `json:"sales_today"`
	SalesThisMonth    decimal.Decimal `json:"sales_this_month"`
	TransactionsToday int64           `json:"transactions_today"`
	TopItems          []ItemSales     `json:"top_items"`
}
