// internal/core/services/report_service_test.go
package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/services"
	"github.com/sehatindo/apotek-be/test/helpers"
	"github.com/sehatindo/apotek-be/test/mocks"
)

// passthroughGetOrSet makes the mock cache behave as a miss: it invokes
// the fetch callback and round-trips the result into dest the same way
// the Redis adapter does.
func passthroughGetOrSet(m *mocks.MockCacheRepository, expectedKey string) {
	m.EXPECT().
		GetOrSet(gomock.Any(), expectedKey, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key string, dest any, fetch func() (any, error), ttl time.Duration) error {
			fresh, err := fetch()
			if err != nil {
				return err
			}
			data, err := json.Marshal(fresh)
			if err != nil {
				return err
			}
			return json.Unmarshal(data, dest)
		})
}

func newReportService(t *testing.T) (*services.ReportService, *mocks.MockReportRepository, *mocks.MockCacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockReportRepository(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)
	service := services.NewReportService(mockRepo, mockCache, helpers.TestLogger())
	return service, mockRepo, mockCache
}

func TestReportService_ExpiringReport(t *testing.T) {
	t.Run("defaults_window_to_90_days", func(t *testing.T) {
		service, mockRepo, mockCache := newReportService(t)

		passthroughGetOrSet(mockCache, "report:expiring:90")
		mockRepo.EXPECT().
			ExpiringItems(gomock.Any(), 90*24*time.Hour, gomock.Any()).
			Return([]domain.ExpiringItem{{ItemName: "Amoxicillin 500mg", DaysLeft: 12}}, nil)

		items, err := service.ExpiringReport(context.Background(), 0)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Amoxicillin 500mg", items[0].ItemName)
	})

	t.Run("uses_requested_window", func(t *testing.T) {
		service, mockRepo, mockCache := newReportService(t)

		passthroughGetOrSet(mockCache, "report:expiring:30")
		mockRepo.EXPECT().
			ExpiringItems(gomock.Any(), 30*24*time.Hour, gomock.Any()).
			Return([]domain.ExpiringItem{}, nil)

		_, err := service.ExpiringReport(context.Background(), 30)
		require.NoError(t, err)
	})

	t.Run("repository_error", func(t *testing.T) {
		service, mockRepo, mockCache := newReportService(t)

		passthroughGetOrSet(mockCache, "report:expiring:90")
		mockRepo.EXPECT().
			ExpiringItems(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := service.ExpiringReport(context.Background(), 90)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build expiring report")
	})
}

func TestReportService_LowStockReport(t *testing.T) {
	t.Run("defaults_threshold_to_10", func(t *testing.T) {
		service, mockRepo, mockCache := newReportService(t)

		passthroughGetOrSet(mockCache, "report:low_stock:10")
		mockRepo.EXPECT().
			LowStockItems(gomock.Any(), 10).
			Return([]domain.LowStockItem{{ItemName: "Infus Set", Quantity: 3}}, nil)

		items, err := service.LowStockReport(context.Background(), -1)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})
}

func TestReportService_ABCAnalysis(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("classifies_by_cumulative_share", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		// 700+200+60+40 = 1000: shares 70, 20, 6, 4.
		// Cumulative 70 -> A, 90 -> B, 96 -> C, 100 -> C.
		sales := []domain.ItemSales{
			{ItemID: uuid.New(), ItemName: "Insulin Pen", SalesValue: decimal.NewFromInt(700)},
			{ItemID: uuid.New(), ItemName: "Amlodipine 10mg", SalesValue: decimal.NewFromInt(200)},
			{ItemID: uuid.New(), ItemName: "Vitamin C 500mg", SalesValue: decimal.NewFromInt(60)},
			{ItemID: uuid.New(), ItemName: "Kasa Steril", SalesValue: decimal.NewFromInt(40)},
		}
		mockRepo.EXPECT().
			SalesByItem(gomock.Any(), from, to).
			Return(sales, nil)

		out, err := service.ABCAnalysis(context.Background(), from, to)

		require.NoError(t, err)
		require.Len(t, out, 4)
		assert.Equal(t, domain.ABCClassA, out[0].Class)
		assert.Equal(t, domain.ABCClassB, out[1].Class)
		assert.Equal(t, domain.ABCClassC, out[2].Class)
		assert.Equal(t, domain.ABCClassC, out[3].Class)
		assert.True(t, out[0].Share.Equal(decimal.NewFromInt(70)))
		assert.True(t, out[3].Cumulative.Equal(decimal.NewFromInt(100)))
	})

	t.Run("sorts_by_sales_value_descending", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		sales := []domain.ItemSales{
			{ItemName: "Low", SalesValue: decimal.NewFromInt(10)},
			{ItemName: "High", SalesValue: decimal.NewFromInt(500)},
		}
		mockRepo.EXPECT().
			SalesByItem(gomock.Any(), from, to).
			Return(sales, nil)

		out, err := service.ABCAnalysis(context.Background(), from, to)

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "High", out[0].ItemName)
		assert.Equal(t, "Low", out[1].ItemName)
	})

	t.Run("empty_period", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		mockRepo.EXPECT().
			SalesByItem(gomock.Any(), from, to).
			Return([]domain.ItemSales{}, nil)

		out, err := service.ABCAnalysis(context.Background(), from, to)

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("repository_error", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		mockRepo.EXPECT().
			SalesByItem(gomock.Any(), from, to).
			Return(nil, errors.New("database error"))

		_, err := service.ABCAnalysis(context.Background(), from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load sales aggregates")
	})
}

func TestReportService_SupplierComparison(t *testing.T) {
	t.Run("requires_item_name", func(t *testing.T) {
		service, _, _ := newReportService(t)

		_, err := service.SupplierComparison(context.Background(), "")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "item_name is required")
	})

	t.Run("returns_rows_per_supplier", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		rows := []domain.SupplierPriceRow{
			{ItemName: "Paracetamol 500mg", Supplier: "PT Kimia Farma Trading", PurchasePrice: decimal.NewFromInt(350)},
			{ItemName: "Paracetamol 500mg", Supplier: "PT Enseval Putera", PurchasePrice: decimal.NewFromInt(340)},
		}
		mockRepo.EXPECT().
			SupplierPrices(gomock.Any(), "Paracetamol 500mg").
			Return(rows, nil)

		out, err := service.SupplierComparison(context.Background(), "Paracetamol 500mg")

		require.NoError(t, err)
		require.Len(t, out, 2)
	})
}

func TestReportService_BPJSReport(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("stamps_the_requested_period", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		mockRepo.EXPECT().
			PaymentSummary(gomock.Any(), from, to).
			Return(&domain.BPJSSummary{BPJSCount: 7, UmumCount: 12}, nil)

		summary, err := service.BPJSReport(context.Background(), from, to)

		require.NoError(t, err)
		assert.Equal(t, from, summary.PeriodStart)
		assert.Equal(t, to, summary.PeriodEnd)
		assert.Equal(t, 7, summary.BPJSCount)
	})

	t.Run("repository_error", func(t *testing.T) {
		service, mockRepo, _ := newReportService(t)

		mockRepo.EXPECT().
			PaymentSummary(gomock.Any(), from, to).
			Return(nil, errors.New("database error"))

		_, err := service.BPJSReport(context.Background(), from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build payment summary")
	})
}

func TestReportService_Dashboard(t *testing.T) {
	t.Run("returns_cached_aggregate", func(t *testing.T) {
		service, mockRepo, mockCache := newReportService(t)

		passthroughGetOrSet(mockCache, "dashboard:stats")
		mockRepo.EXPECT().
			DashboardStats(gomock.Any(), gomock.Any()).
			Return(&domain.DashboardStats{TotalItems: 42, LowStock: 3}, nil)

		stats, err := service.Dashboard(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(42), stats.TotalItems)
		assert.Equal(t, int64(3), stats.LowStock)
	})

	t.Run("cache_hit_skips_repository", func(t *testing.T) {
		service, _, mockCache := newReportService(t)

		mockCache.EXPECT().
			GetOrSet(gomock.Any(), "dashboard:stats", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, dest any, fetch func() (any, error), ttl time.Duration) error {
				stats := dest.(*domain.DashboardStats)
				stats.TotalItems = 99
				return nil
			})

		stats, err := service.Dashboard(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(99), stats.TotalItems)
	})
}
