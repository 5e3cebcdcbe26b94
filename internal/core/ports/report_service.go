// internal/core/ports/report_service.go
package ports

import (
	"context"
	"time"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// ReportService defines the interface for report and dashboard queries
type ReportService interface {
	ExpiringReport(ctx context.Context, days int) ([]domain.ExpiringItem, error)
	LowStockReport(ctx context.Context, threshold int) ([]domain.LowStockItem, error)
	ABCAnalysis(ctx context.Context, from, to time.Time) ([]domain.ABCItem, error)
	ProfitReport(ctx context.Context, from, to time.Time) ([]domain.ProfitRow, error)
	SupplierComparison(ctx context.Context, itemName string) ([]domain.SupplierPriceRow, error)
	BPJSReport(ctx context.Context, from, to time.Time) (*domain.BPJSSummary, error)
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}
