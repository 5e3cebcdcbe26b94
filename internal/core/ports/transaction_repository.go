// internal/core/ports/transaction_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// TransactionRepository is the stock ledger port. Every mutating method is
// one atomic unit against both the transaction record and all referenced
// inventory rows: the implementation re-reads each inventory row inside the
// atomic scope before deciding, and either commits every effect or none.
//
// Business failures surface as domain.ErrItemNotFound and
// domain.ErrInsufficientStock for inventory lines, and as
// domain.ErrTransactionNotFound when the record itself is missing;
// transient commit conflicts are retried by
// the adapter and surface as domain.ErrStoreConflict only when the retry
// budget is exhausted.
type TransactionRepository interface {
	// Create checks and decrements stock for every line, then inserts the
	// record. No partial decrement is ever observable.
	Create(ctx context.Context, txn *domain.Transaction) error

	// Update reverts the original lines (adding quantities back, silently
	// skipping items that no longer exist), re-applies the new lines with
	// the same checks as Create, and writes the replacement record. The
	// original snapshot is caller-supplied; it is not re-derived from the
	// store because "what to undo" must be fixed before the atomic body
	// runs.
	Update(ctx context.Context, id uuid.UUID, newData *domain.Transaction, original *domain.Transaction) error

	// Delete restores each line's quantity (silently skipping missing
	// items) and removes the record.
	Delete(ctx context.Context, id uuid.UUID, snapshot *domain.Transaction) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	FindAll(ctx context.Context, params TransactionListParams) ([]*domain.Transaction, int64, error)
}

// TransactionListParams holds query parameters for listing transactions
type TransactionListParams struct {
	PatientType   string
	PaymentMethod string
	MedicalRecord string
	DateFrom      string
	DateTo        string
	SortOrder     string
	Page          int
	PageSize      int
}
