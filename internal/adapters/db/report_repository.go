// internal/adapters/db/report_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// ReportRepository implements the read-side aggregate queries
type ReportRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *Database, logger *slog.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "report")),
	}
}

// ExpiringItems lists live items expiring inside the window, soonest first
func (r *ReportRepository) ExpiringItems(ctx context.Context, within time.Duration, now time.Time) ([]domain.ExpiringItem, error) {
	cutoff := now.Add(within)
	rows, err := r.db.Query(ctx, `
		SELECT id, item_name, batch_number, quantity, expired_date
		FROM inventory
		WHERE deleted_at IS NULL AND quantity > 0 AND expired_date <= $1
		ORDER BY expired_date ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring items: %w", err)
	}
	defer rows.Close()

	var out []domain.ExpiringItem
	for rows.Next() {
		var item domain.ExpiringItem
		if err := rows.Scan(&item.ID, &item.ItemName, &item.BatchNumber,
			&item.Quantity, &item.ExpiredDate); err != nil {
			return nil, fmt.Errorf("failed to scan expiring item: %w", err)
		}
		item.DaysLeft = int(item.ExpiredDate.Sub(now).Hours() / 24)
		out = append(out, item)
	}
	return out, rows.Err()
}

// LowStockItems lists live items at or below the threshold, emptiest first
func (r *ReportRepository) LowStockItems(ctx context.Context, threshold int) ([]domain.LowStockItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_name, unit, quantity, supplier
		FROM inventory
		WHERE deleted_at IS NULL AND quantity <= $1
		ORDER BY quantity ASC, item_name ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock items: %w", err)
	}
	defer rows.Close()

	var out []domain.LowStockItem
	for rows.Next() {
		var item domain.LowStockItem
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Unit,
			&item.Quantity, &item.Supplier); err != nil {
			return nil, fmt.Errorf("failed to scan low stock item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// SalesByItem aggregates sold value per item over the period
func (r *ReportRepository) SalesByItem(ctx context.Context, from, to time.Time) ([]domain.ItemSales, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ti.item_id, ti.item_name, SUM(ti.quantity * ti.unit_price) AS sales_value
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY ti.item_id, ti.item_name
		ORDER BY sales_value DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales aggregates: %w", err)
	}
	defer rows.Close()

	var out []domain.ItemSales
	for rows.Next() {
		var (
			row   domain.ItemSales
			value pgtype.Numeric
		)
		if err := rows.Scan(&row.ItemID, &row.ItemName, &value); err != nil {
			return nil, fmt.Errorf("failed to scan sales aggregate: %w", err)
		}
		row.SalesValue = numericToDecimal(value)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ProfitByItem joins sold lines with current purchase prices to estimate
// per-item margin over the period
func (r *ReportRepository) ProfitByItem(ctx context.Context, from, to time.Time) ([]domain.ProfitRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ti.item_id, ti.item_name,
		       SUM(ti.quantity) AS units_sold,
		       SUM(ti.quantity * ti.unit_price) AS revenue,
		       SUM(ti.quantity * COALESCE(i.purchase_price, 0)) AS cost_of_goods
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		LEFT JOIN inventory i ON i.id = ti.item_id
		WHERE t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY ti.item_id, ti.item_name
		ORDER BY revenue DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query profit aggregates: %w", err)
	}
	defer rows.Close()

	hundred := decimal.NewFromInt(100)
	var out []domain.ProfitRow
	for rows.Next() {
		var (
			row           domain.ProfitRow
			revenue, cogs pgtype.Numeric
		)
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.UnitsSold,
			&revenue, &cogs); err != nil {
			return nil, fmt.Errorf("failed to scan profit aggregate: %w", err)
		}
		row.Revenue = numericToDecimal(revenue)
		row.CostOfGoods = numericToDecimal(cogs)
		row.GrossProfit = row.Revenue.Sub(row.CostOfGoods)
		if row.Revenue.IsPositive() {
			row.MarginPercent = row.GrossProfit.Div(row.Revenue).Mul(hundred).Round(2)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SupplierPrices lists purchase prices per supplier for one item name,
// most recent batch per supplier first
func (r *ReportRepository) SupplierPrices(ctx context.Context, itemName string) ([]domain.SupplierPriceRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_name, supplier, purchase_price, batch_number, input_date
		FROM inventory
		WHERE deleted_at IS NULL AND lower(item_name) = lower($1)
		ORDER BY supplier ASC, input_date DESC`, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier prices: %w", err)
	}
	defer rows.Close()

	var out []domain.SupplierPriceRow
	for rows.Next() {
		var (
			row   domain.SupplierPriceRow
			price pgtype.Numeric
		)
		if err := rows.Scan(&row.ItemName, &row.Supplier, &price,
			&row.BatchNumber, &row.InputDate); err != nil {
			return nil, fmt.Errorf("failed to scan supplier price: %w", err)
		}
		row.PurchasePrice = numericToDecimal(price)
		out = append(out, row)
	}
	return out, rows.Err()
}

// PaymentSummary aggregates the period's transactions by payment method
// and patient type
func (r *ReportRepository) PaymentSummary(ctx context.Context, from, to time.Time) (*domain.BPJSSummary, error) {
	var (
		summary              domain.BPJSSummary
		bpjsTotal, umumTotal pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE payment_method = 'BPJS'),
			COALESCE(SUM(total_price) FILTER (WHERE payment_method = 'BPJS'), 0),
			COUNT(*) FILTER (WHERE payment_method = 'UMUM'),
			COALESCE(SUM(total_price) FILTER (WHERE payment_method = 'UMUM'), 0),
			COUNT(*) FILTER (WHERE patient_type = 'Rawat Inap'),
			COUNT(*) FILTER (WHERE patient_type = 'Rawat Jalan'),
			COUNT(*)
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2`, from, to).
		Scan(&summary.BPJSCount, &bpjsTotal, &summary.UmumCount, &umumTotal,
			&summary.RawatInapCount, &summary.RawatJalanCount, &summary.TransactionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment summary: %w", err)
	}

	summary.BPJSTotal = numericToDecimal(bpjsTotal)
	summary.UmumTotal = numericToDecimal(umumTotal)
	return &summary, nil
}

// DashboardStats collects the landing-view aggregates in one round of
// queries
func (r *ReportRepository) DashboardStats(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	var (
		stats      domain.DashboardStats
		stockValue pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(quantity * purchase_price), 0),
		       COUNT(*) FILTER (WHERE expired_date <= now() + interval '90 days' AND quantity > 0),
		       COUNT(*) FILTER (WHERE quantity <= 10)
		FROM inventory
		WHERE deleted_at IS NULL`).
		Scan(&stats.TotalItems, &stats.TotalStockUnits, &stockValue,
			&stats.ExpiringSoon, &stats.LowStock)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory stats: %w", err)
	}
	stats.StockValue = numericToDecimal(stockValue)

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var salesToday, salesMonth pgtype.Numeric
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_price) FILTER (WHERE transaction_date >= $1), 0),
			COALESCE(SUM(total_price) FILTER (WHERE transaction_date >= $2), 0),
			COUNT(*) FILTER (WHERE transaction_date >= $1)
		FROM transactions`, dayStart, monthStart).
		Scan(&salesToday, &salesMonth, &stats.TransactionsToday)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales stats: %w", err)
	}
	stats.SalesToday = numericToDecimal(salesToday)
	stats.SalesThisMonth = numericToDecimal(salesMonth)

	topItems, err := r.SalesByItem(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	if len(topItems) > 5 {
		topItems = topItems[:5]
	}
	stats.TopItems = topItems

	return &stats, nil
}

// Compile-time interface check
var _ ports.ReportRepository = (*ReportRepository)(nil)
