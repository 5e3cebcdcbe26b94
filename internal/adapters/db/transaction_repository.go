// internal/adapters/db/transaction_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

const (
	transactionsTable     = "transactions"
	transactionItemsTable = "transaction_items"
)

// TransactionRepository implements the stock ledger against PostgreSQL.
// Each mutation runs as one serializable transaction: stock rows are
// locked and re-read inside the transaction before any decision, so
// checks and writes always see the same state.
type TransactionRepository struct {
	db     *Database
	logger *slog.Logger
	sb     sq.StatementBuilderType
}

// NewTransactionRepository creates a new transaction repository instance
func NewTransactionRepository(db *Database, logger *slog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "transaction")),
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create checks and decrements stock for every line, then inserts the
// transaction record with its lines. Nothing commits on any failure.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	err := r.db.Atomic(ctx, func(tx pgx.Tx) error {
		if err := r.consumeStock(ctx, tx, txn.QuantityByItem()); err != nil {
			return err
		}
		return r.insertRecord(ctx, tx, txn)
	})
	if err != nil {
		return r.classify(err, "create")
	}

	r.logger.InfoContext(ctx, "transaction recorded",
		slog.String("id", txn.ID.String()),
		slog.Int("line_count", len(txn.Items)))
	return nil
}

// Update reverts the original lines, applies the new lines and replaces
// the stored record, all in one atomic unit
func (r *TransactionRepository) Update(ctx context.Context, id uuid.UUID, newData *domain.Transaction, original *domain.Transaction) error {
	err := r.db.Atomic(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check transaction: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}

		r.restoreStock(ctx, tx, original.QuantityByItem())
		if err := r.consumeStock(ctx, tx, newData.QuantityByItem()); err != nil {
			return err
		}

		newData.ID = id
		newData.UpdatedAt = time.Now().UTC()
		if err := r.replaceRecord(ctx, tx, newData); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return r.classify(err, "update")
	}

	r.logger.InfoContext(ctx, "transaction replaced", slog.String("id", id.String()))
	return nil
}

// Delete restores each line's stock and removes the record
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID, snapshot *domain.Transaction) error {
	err := r.db.Atomic(ctx, func(tx pgx.Tx) error {
		r.restoreStock(ctx, tx, snapshot.QuantityByItem())

		tag, err := tx.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}
		return nil
	})
	if err != nil {
		return r.classify(err, "delete")
	}

	r.logger.InfoContext(ctx, "transaction removed", slog.String("id", id.String()))
	return nil
}

// consumeStock locks each referenced inventory row, verifies availability
// and decrements. Items are visited in id order so concurrent writers
// acquire locks in the same sequence.
func (r *TransactionRepository) consumeStock(ctx context.Context, tx pgx.Tx, quantities map[uuid.UUID]int) error {
	for _, itemID := range sortedItemIDs(quantities) {
		requested := quantities[itemID]

		var (
			onHand   int
			itemName string
		)
		err := tx.QueryRow(ctx,
			"SELECT quantity, item_name FROM inventory WHERE id = $1 AND deleted_at IS NULL FOR UPDATE",
			itemID).Scan(&onHand, &itemName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ItemNotFoundError(itemID)
			}
			return fmt.Errorf("failed to lock inventory row: %w", err)
		}

		if onHand < requested {
			return domain.InsufficientStockError(itemID, itemName, onHand, requested)
		}

		_, err = tx.Exec(ctx,
			"UPDATE inventory SET quantity = quantity - $1, updated_at = now() WHERE id = $2",
			requested, itemID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
	}
	return nil
}

// restoreStock adds quantities back to the referenced inventory rows.
// Rows that no longer exist are skipped without error: a reversal must
// not fail because an item was deleted after the sale was recorded.
func (r *TransactionRepository) restoreStock(ctx context.Context, tx pgx.Tx, quantities map[uuid.UUID]int) {
	for _, itemID := range sortedItemIDs(quantities) {
		tag, err := tx.Exec(ctx,
			"UPDATE inventory SET quantity = quantity + $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL",
			quantities[itemID], itemID)
		if err != nil || tag.RowsAffected() == 0 {
			r.logger.WarnContext(ctx, "skipped stock restore for missing item",
				slog.String("item_id", itemID.String()))
		}
	}
}

// sortedItemIDs returns the map keys in stable byte order
func sortedItemIDs(quantities map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return strings.Compare(ids[i].String(), ids[j].String()) < 0
	})
	return ids
}

// insertRecord writes the transaction header and its lines
func (r *TransactionRepository) insertRecord(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions
			(id, transaction_date, patient_type, payment_method,
			 medical_record_number, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.Date, string(txn.PatientType), string(txn.PaymentMethod),
		txn.MedicalRecordNumber, decimalToNumeric(txn.TotalPrice),
		txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for i, line := range txn.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO transaction_items
				(transaction_id, line_no, item_id, item_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			txn.ID, i+1, line.ItemID, line.ItemName, line.Quantity,
			decimalToNumeric(line.UnitPrice))
		if err != nil {
			return fmt.Errorf("failed to insert transaction line %d: %w", i+1, err)
		}
	}
	return nil
}

// replaceRecord updates the header and swaps out the lines
func (r *TransactionRepository) replaceRecord(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	_, err := tx.Exec(ctx, `
		UPDATE transactions SET
			transaction_date = $2, patient_type = $3, payment_method = $4,
			medical_record_number = $5, total_price = $6, updated_at = $7
		WHERE id = $1`,
		txn.ID, txn.Date, string(txn.PatientType), string(txn.PaymentMethod),
		txn.MedicalRecordNumber, decimalToNumeric(txn.TotalPrice), txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM transaction_items WHERE transaction_id = $1", txn.ID); err != nil {
		return fmt.Errorf("failed to clear transaction lines: %w", err)
	}

	for i, line := range txn.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO transaction_items
				(transaction_id, line_no, item_id, item_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			txn.ID, i+1, line.ItemID, line.ItemName, line.Quantity,
			decimalToNumeric(line.UnitPrice))
		if err != nil {
			return fmt.Errorf("failed to insert transaction line %d: %w", i+1, err)
		}
	}
	return nil
}

// classify keeps business errors intact and converts exhausted retry
// budgets into the conflict sentinel
func (r *TransactionRepository) classify(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrInsufficientStock):
		return err
	case isSerializationFailure(err):
		return fmt.Errorf("%w: %s", domain.ErrStoreConflict, op)
	default:
		return fmt.Errorf("transaction %s failed: %w", op, err)
	}
}

// FindByID retrieves a transaction with its lines, nil when absent
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, transaction_date, patient_type, payment_method,
		       medical_record_number, total_price, created_at, updated_at
		FROM transactions WHERE id = $1`, id)

	txn, err := scanTransactionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	txn.Items = items[id]
	return txn, nil
}

// FindAll retrieves a filtered, paginated page of transactions with
// their lines, newest first by default
func (r *TransactionRepository) FindAll(ctx context.Context, params ports.TransactionListParams) ([]*domain.Transaction, int64, error) {
	base := r.sb.Select().From(transactionsTable)

	if params.PatientType != "" {
		base = base.Where(sq.Eq{"patient_type": params.PatientType})
	}
	if params.PaymentMethod != "" {
		base = base.Where(sq.Eq{"payment_method": params.PaymentMethod})
	}
	if params.MedicalRecord != "" {
		base = base.Where(sq.Eq{"medical_record_number": params.MedicalRecord})
	}
	if params.DateFrom != "" {
		base = base.Where(sq.GtOrEq{"transaction_date": params.DateFrom})
	}
	if params.DateTo != "" {
		base = base.Where(sq.LtOrEq{"transaction_date": params.DateTo})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	order := "transaction_date DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		order = "transaction_date ASC"
	}

	query, args, err := base.Columns(
		"id", "transaction_date", "patient_type", "payment_method",
		"medical_record_number", "total_price", "created_at", "updated_at").
		OrderBy(order).
		Limit(uint64(params.PageSize)).
		Offset(uint64((params.Page - 1) * params.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}

	txns, err := ScanMany(rows, scanTransactionRows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan transactions: %w", err)
	}
	if len(txns) == 0 {
		return txns, total, nil
	}

	ids := make([]uuid.UUID, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, t := range txns {
		t.Items = items[t.ID]
	}
	return txns, total, nil
}

// loadItems fetches the lines for a set of transactions in one query
func (r *TransactionRepository) loadItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.TransactionItem, error) {
	query, args, err := r.sb.Select(
		"transaction_id", "item_id", "item_name", "quantity", "unit_price").
		From(transactionItemsTable).
		Where(sq.Eq{"transaction_id": ids}).
		OrderBy("transaction_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lines query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction lines: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.TransactionItem, len(ids))
	for rows.Next() {
		var (
			txnID uuid.UUID
			line  domain.TransactionItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&txnID, &line.ItemID, &line.ItemName, &line.Quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		line.UnitPrice = numericToDecimal(price)
		out[txnID] = append(out[txnID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction lines: %w", err)
	}
	return out, nil
}

// scanTransactionRow scans one transaction header row
func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn              domain.Transaction
		patient, payment string
		total            pgtype.Numeric
	)
	err := row.Scan(&txn.ID, &txn.Date, &patient, &payment,
		&txn.MedicalRecordNumber, &total, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	txn.PatientType = domain.PatientType(patient)
	txn.PaymentMethod = domain.PaymentMethod(payment)
	txn.TotalPrice = numericToDecimal(total)
	return &txn, nil
}

// scanTransactionRows adapts scanTransactionRow for ScanMany
func scanTransactionRows(rows pgx.Rows) (*domain.Transaction, error) {
	return scanTransactionRow(rows)
}

// Compile-time interface check
var _ ports.TransactionRepository = (*TransactionRepository)(nil)
