// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

const inventoryTable = "inventory"

var inventoryColumns = []string{
	"id", "item_name", "batch_number", "item_type", "category", "unit",
	"quantity", "purchase_price", "selling_price_rj", "selling_price_ri",
	"supplier", "input_date", "expired_date",
	"created_at", "updated_at", "deleted_at",
}

// InventoryRepository implements ports.InventoryRepository using PostgreSQL
type InventoryRepository struct {
	db     *Database
	logger *slog.Logger
	sb     sq.StatementBuilderType
}

// NewInventoryRepository creates a new inventory repository instance
func NewInventoryRepository(db *Database, logger *slog.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Save inserts a new inventory item
func (r *InventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	query, args, err := r.sb.Insert(inventoryTable).
		Columns(inventoryColumns[:len(inventoryColumns)-1]...).
		Values(insertValues(item)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// Update replaces the stored fields of an existing item
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()

	query, args, err := r.sb.Update(inventoryTable).
		SetMap(updateMap(item)).
		Where(sq.Eq{"id": item.ID}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ItemNotFoundError(item.ID)
	}
	return nil
}

// FindByID retrieves an item by id, nil when absent
func (r *InventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	query, args, err := r.sb.Select(inventoryColumns...).
		From(inventoryTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	item, err := scanInventoryRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query inventory item: %w", err)
	}
	return item, nil
}

// FindByNaturalKey retrieves an item by its (item_name, batch_number)
// pair, nil when absent. The match is exact; a candidate differing only
// in case is a different key and inserts a new row.
func (r *InventoryRepository) FindByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.InventoryItem, error) {
	query, args, err := r.sb.Select(inventoryColumns...).
		From(inventoryTable).
		Where(sq.Eq{"item_name": key.ItemName}).
		Where(sq.Eq{"batch_number": key.BatchNumber}).
		Where(sq.Eq{"deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build natural key query: %w", err)
	}

	item, err := scanInventoryRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query inventory item by natural key: %w", err)
	}
	return item, nil
}

// FindAll retrieves a filtered, sorted, paginated page plus the total count
func (r *InventoryRepository) FindAll(ctx context.Context, params ports.InventoryListParams) ([]*domain.InventoryItem, int64, error) {
	base := r.sb.Select().
		From(inventoryTable).
		Where(sq.Eq{"deleted_at": nil})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"item_name": pattern},
			sq.ILike{"batch_number": pattern},
			sq.ILike{"supplier": pattern},
		})
	}
	if params.ItemType != "" {
		base = base.Where(sq.Eq{"item_type": params.ItemType})
	}
	if params.Category != "" {
		base = base.Where(sq.Eq{"category": params.Category})
	}
	if params.Supplier != "" {
		base = base.Where(sq.ILike{"supplier": "%" + params.Supplier + "%"})
	}
	if params.LowStockBelow != nil {
		base = base.Where(sq.LtOrEq{"quantity": *params.LowStockBelow})
	}
	if params.ExpiringDays != nil {
		base = base.Where(sq.Expr("expired_date <= now() + make_interval(days => ?)", *params.ExpiringDays))
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}

	sortColumn := sortableColumn(params.SortBy)
	sortOrder := "ASC"
	if strings.EqualFold(params.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	offset := uint64((params.Page - 1) * params.PageSize)
	query, args, err := base.Columns(inventoryColumns...).
		OrderBy(sortColumn + " " + sortOrder).
		Limit(uint64(params.PageSize)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory: %w", err)
	}

	items, err := ScanMany(rows, scanInventoryRows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan inventory rows: %w", err)
	}
	return items, total, nil
}

// sortableColumn whitelists sort keys so user input never reaches the
// ORDER BY clause directly
func sortableColumn(key string) string {
	switch key {
	case "item_name", "batch_number", "quantity", "expired_date",
		"input_date", "supplier", "purchase_price", "created_at":
		return key
	default:
		return "item_name"
	}
}

// ApplyUpsertBatch commits the staged updates and inserts in a single
// transaction via one pgx batch. Either every row lands or none.
func (r *InventoryRepository) ApplyUpsertBatch(ctx context.Context, plan ports.UpsertPlan) error {
	if plan.Empty() {
		return nil
	}

	batch := &pgx.Batch{}
	now := time.Now().UTC()

	for i := range plan.Updates {
		item := plan.Updates[i]
		item.UpdatedAt = now
		query, args, err := r.sb.Update(inventoryTable).
			SetMap(updateMap(&item)).
			Where(sq.Eq{"id": item.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build batch update: %w", err)
		}
		batch.Queue(query, args...)
	}

	for i := range plan.Inserts {
		item := plan.Inserts[i]
		query, args, err := r.sb.Insert(inventoryTable).
			Columns(inventoryColumns[:len(inventoryColumns)-1]...).
			Values(insertValues(&item)...).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build batch insert: %w", err)
		}
		batch.Queue(query, args...)
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("batch statement %d failed: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply upsert batch: %w", err)
	}

	r.logger.InfoContext(ctx, "upsert batch applied",
		slog.Int("updates", len(plan.Updates)),
		slog.Int("inserts", len(plan.Inserts)))
	return nil
}

// Delete permanently removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Delete(inventoryTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ItemNotFoundError(id)
	}
	return nil
}

// SoftDelete marks an item deleted without removing the row
func (r *InventoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Update(inventoryTable).
		Set("deleted_at", time.Now().UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build soft delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to soft delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ItemNotFoundError(id)
	}
	return nil
}

// Count returns the number of live inventory rows
func (r *InventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM inventory WHERE deleted_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count inventory: %w", err)
	}
	return count, nil
}

// Exists reports whether a live item with the id exists
func (r *InventoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM inventory WHERE id = $1 AND deleted_at IS NULL)",
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check inventory item: %w", err)
	}
	return exists, nil
}

// insertValues lists column values in inventoryColumns order, minus
// deleted_at
func insertValues(item *domain.InventoryItem) []interface{} {
	return []interface{}{
		item.ID, item.ItemName, item.BatchNumber, string(item.ItemType),
		string(item.Category), item.Unit, item.Quantity,
		decimalToNumeric(item.PurchasePrice),
		decimalToNumeric(item.SellingPriceRJ),
		decimalToNumeric(item.SellingPriceRI),
		item.Supplier, item.InputDate, item.ExpiredDate,
		item.CreatedAt, item.UpdatedAt,
	}
}

// updateMap lists the mutable columns for UPDATE statements
func updateMap(item *domain.InventoryItem) map[string]interface{} {
	return map[string]interface{}{
		"item_name":        item.ItemName,
		"batch_number":     item.BatchNumber,
		"item_type":        string(item.ItemType),
		"category":         string(item.Category),
		"unit":             item.Unit,
		"quantity":         item.Quantity,
		"purchase_price":   decimalToNumeric(item.PurchasePrice),
		"selling_price_rj": decimalToNumeric(item.SellingPriceRJ),
		"selling_price_ri": decimalToNumeric(item.SellingPriceRI),
		"supplier":         item.Supplier,
		"input_date":       item.InputDate,
		"expired_date":     item.ExpiredDate,
		"updated_at":       item.UpdatedAt,
	}
}

// scanInventoryRow scans one pgx.Row in inventoryColumns order
func scanInventoryRow(row pgx.Row) (*domain.InventoryItem, error) {
	var (
		item                 domain.InventoryItem
		itemType, category   string
		purchase, prRJ, prRI pgtype.Numeric
		deletedAt            pgtype.Timestamptz
	)

	err := row.Scan(
		&item.ID, &item.ItemName, &item.BatchNumber, &itemType, &category,
		&item.Unit, &item.Quantity, &purchase, &prRJ, &prRI,
		&item.Supplier, &item.InputDate, &item.ExpiredDate,
		&item.CreatedAt, &item.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ItemType = domain.ItemType(itemType)
	item.Category = domain.ItemCategory(category)
	item.PurchasePrice = numericToDecimal(purchase)
	item.SellingPriceRJ = numericToDecimal(prRJ)
	item.SellingPriceRI = numericToDecimal(prRI)
	if deletedAt.Valid {
		t := deletedAt.Time
		item.DeletedAt = &t
	}
	return &item, nil
}

// scanInventoryRows adapts scanInventoryRow for ScanMany
func scanInventoryRows(rows pgx.Rows) (*domain.InventoryItem, error) {
	return scanInventoryRow(rows)
}

// decimalToNumeric converts a decimal for a numeric column parameter
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		// Scan of a decimal's canonical string form cannot fail
		return pgtype.Numeric{}
	}
	return n
}

// numericToDecimal converts a scanned numeric column value
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// Compile-time interface check
var _ ports.InventoryRepository = (*InventoryRepository)(nil)
