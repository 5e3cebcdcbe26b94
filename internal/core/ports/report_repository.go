// internal/core/ports/report_repository.go
package ports

import (
	"context"
	"time"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// ReportRepository exposes the read-side aggregate queries behind the
// report and dashboard endpoints
type ReportRepository interface {
	ExpiringItems(ctx context.Context, within time.Duration, now time.Time) ([]domain.ExpiringItem, error)
	LowStockItems(ctx context.Context, threshold int) ([]domain.LowStockItem, error)
	SalesByItem(ctx context.Context, from, to time.Time) ([]domain.ItemSales, error)
	ProfitByItem(ctx context.Context, from, to time.Time) ([]domain.ProfitRow, error)
	SupplierPrices(ctx context.Context, itemName string) ([]domain.SupplierPriceRow, error)
	PaymentSummary(ctx context.Context, from, to time.Time) (*domain.BPJSSummary, error)
	DashboardStats(ctx context.Context, now time.Time) (*domain.DashboardStats, error)
}
