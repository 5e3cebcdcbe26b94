// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Business failures of the stock ledger. Each aborts the enclosing atomic
// operation in full; nothing is committed when one is returned.
var (
	// ErrItemNotFound means a referenced inventory id did not exist at
	// decrement time.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrTransactionNotFound means the referenced transaction id does not
	// exist or was already deleted.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInsufficientStock means a line requested more units than the
	// item had on hand at decrement time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStoreConflict is returned when concurrent writers kept an atomic
	// operation from committing within its retry budget.
	ErrStoreConflict = errors.New("store conflict: retry budget exhausted")

	// ErrValidation marks malformed input rejected before any store access.
	ErrValidation = errors.New("validation failed")
)

// ItemNotFoundError wraps ErrItemNotFound with the offending id.
func ItemNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// InsufficientStockError wraps ErrInsufficientStock with line detail.
func InsufficientStockError(id uuid.UUID, name string, onHand, requested int) error {
	return fmt.Errorf("%w: %s (%s) has %d on hand, %d requested",
		ErrInsufficientStock, name, id, onHand, requested)
}
