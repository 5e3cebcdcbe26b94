// internal/core/services/report.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// Cache TTLs for report queries. Reports tolerate short staleness;
// the dashboard refreshes more often than the heavier aggregates.
const (
	dashboardCacheTTL = 1 * time.Minute
	reportCacheTTL    = 5 * time.Minute
)

// ABC cumulative-share cutoffs
var (
	abcCutoffA = decimal.NewFromInt(80)
	abcCutoffB = decimal.NewFromInt(95)
)

// ReportService implements report and dashboard queries with a
// read-through cache in front of the aggregate SQL.
type ReportService struct {
	repo   ports.ReportRepository
	cache  ports.CacheRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewReportService creates a new report service instance
func NewReportService(
	repo ports.ReportRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "report")),
		now:    time.Now,
	}
}

// ExpiringReport lists items whose expiry falls within the given number
// of days, soonest first
func (s *ReportService) ExpiringReport(ctx context.Context, days int) ([]domain.ExpiringItem, error) {
	if days <= 0 {
		days = 90
	}

	var items []domain.ExpiringItem
	key := fmt.Sprintf("report:expiring:%d", days)
	err := s.cache.GetOrSet(ctx, key, &items, func() (interface{}, error) {
		rows, err := s.repo.ExpiringItems(ctx, time.Duration(days)*24*time.Hour, s.now())
		if err != nil {
			return nil, err
		}
		return rows, nil
	}, reportCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build expiring report: %w", err)
	}
	return items, nil
}

// LowStockReport lists items at or below the given quantity threshold
func (s *ReportService) LowStockReport(ctx context.Context, threshold int) ([]domain.LowStockItem, error) {
	if threshold <= 0 {
		threshold = 10
	}

	var items []domain.LowStockItem
	key := fmt.Sprintf("report:low_stock:%d", threshold)
	err := s.cache.GetOrSet(ctx, key, &items, func() (interface{}, error) {
		rows, err := s.repo.LowStockItems(ctx, threshold)
		if err != nil {
			return nil, err
		}
		return rows, nil
	}, reportCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build low stock report: %w", err)
	}
	return items, nil
}

// ABCAnalysis classifies items by their share of sales value in the
// period: class A up to 80% cumulative, B up to 95%, C the tail.
func (s *ReportService) ABCAnalysis(ctx context.Context, from, to time.Time) ([]domain.ABCItem, error) {
	sales, err := s.repo.SalesByItem(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales aggregates: %w", err)
	}
	return classifyABC(sales), nil
}

// classifyABC ranks sales aggregates by value and assigns ABC classes
// by cumulative share
func classifyABC(sales []domain.ItemSales) []domain.ABCItem {
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].SalesValue.GreaterThan(sales[j].SalesValue)
	})

	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.SalesValue)
	}

	out := make([]domain.ABCItem, 0, len(sales))
	cumulative := decimal.Zero
	hundred := decimal.NewFromInt(100)

	for _, s := range sales {
		share := decimal.Zero
		if total.IsPositive() {
			share = s.SalesValue.Div(total).Mul(hundred).Round(2)
		}
		cumulative = cumulative.Add(share)

		class := domain.ABCClassC
		switch {
		case cumulative.LessThanOrEqual(abcCutoffA):
			class = domain.ABCClassA
		case cumulative.LessThanOrEqual(abcCutoffB):
			class = domain.ABCClassB
		}

		out = append(out, domain.ABCItem{
			ItemID:     s.ItemID,
			ItemName:   s.ItemName,
			SalesValue: s.SalesValue,
			Share:      share,
			Cumulative: cumulative,
			Class:      class,
		})
	}
	return out
}

// ProfitReport computes per-item revenue, cost of goods and margin for
// the period
func (s *ReportService) ProfitReport(ctx context.Context, from, to time.Time) ([]domain.ProfitRow, error) {
	rows, err := s.repo.ProfitByItem(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build profit report: %w", err)
	}
	return rows, nil
}

// SupplierComparison lists purchase prices per supplier for one item name
func (s *ReportService) SupplierComparison(ctx context.Context, itemName string) ([]domain.SupplierPriceRow, error) {
	if itemName == "" {
		return nil, fmt.Errorf("%w: item_name is required", domain.ErrValidation)
	}
	rows, err := s.repo.SupplierPrices(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to compare supplier prices: %w", err)
	}
	return rows, nil
}

// BPJSReport summarizes the period's sales split by payment method
func (s *ReportService) BPJSReport(ctx context.Context, from, to time.Time) (*domain.BPJSSummary, error) {
	summary, err := s.repo.PaymentSummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment summary: %w", err)
	}
	summary.PeriodStart = from
	summary.PeriodEnd = to
	return summary, nil
}

// Dashboard returns the cached aggregate stats for the landing view
func (s *ReportService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := s.cache.GetOrSet(ctx, "dashboard:stats", &stats, func() (interface{}, error) {
		fresh, err := s.repo.DashboardStats(ctx, s.now())
		if err != nil {
			return nil, err
		}
		return fresh, nil
	}, dashboardCacheTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load dashboard stats",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}

// Compile-time interface check
var _ ports.ReportService = (*ReportService)(nil)
