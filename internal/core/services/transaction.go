// internal/core/services/transaction.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// TransactionService implements business logic for sales transactions.
// Stock movement is delegated to the repository, which applies each
// mutation and its inventory effects as one atomic unit.
type TransactionService struct {
	repo   ports.TransactionRepository
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service instance
func NewTransactionService(repo ports.TransactionRepository, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		repo:   repo,
		logger: logger.With(slog.String("service", "transaction")),
	}
}

// CreateTransaction validates and records a sale, decrementing stock
func (s *TransactionService) CreateTransaction(ctx context.Context, txn *domain.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	txn.PrepareForStorage()
	txn.ComputeTotal()

	if err := s.repo.Create(ctx, txn); err != nil {
		s.logger.ErrorContext(ctx, "failed to create transaction",
			slog.String("patient_type", string(txn.PatientType)),
			slog.Int("line_count", len(txn.Items)),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.InfoContext(ctx, "transaction created",
		slog.String("id", txn.ID.String()),
		slog.String("total", txn.TotalPrice.String()))
	return nil
}

// UpdateTransaction replaces a recorded sale. The caller supplies the
// original line items so the repository knows exactly what to revert;
// the stored record is only used to verify the transaction still exists.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, newData *domain.Transaction, original *domain.Transaction) error {
	if err := newData.Validate(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if original == nil || len(original.Items) == 0 {
		return fmt.Errorf("%w: original transaction snapshot is required", domain.ErrValidation)
	}
	newData.ComputeTotal()

	if err := s.repo.Update(ctx, id, newData, original); err != nil {
		s.logger.ErrorContext(ctx, "failed to update transaction",
			slog.String("id", id.String()),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.InfoContext(ctx, "transaction updated", slog.String("id", id.String()))
	return nil
}

// DeleteTransaction removes a sale and restores the stock it consumed
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	snapshot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up transaction: %w", err)
	}
	if snapshot == nil {
		return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
	}

	if err := s.repo.Delete(ctx, id, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete transaction",
			slog.String("id", id.String()),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.InfoContext(ctx, "transaction deleted", slog.String("id", id.String()))
	return nil
}

// GetTransactionByID retrieves a single transaction with its lines
func (s *TransactionService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, paginated slice of sales
func (s *TransactionService) ListTransactions(ctx context.Context, params ports.TransactionListParams) (*ports.TransactionListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 200 {
		params.PageSize = 50
	}

	txns, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(params.PageSize)))
	return &ports.TransactionListResult{
		Transactions: txns,
		TotalCount:   total,
		Page:         params.Page,
		PageSize:     params.PageSize,
		TotalPages:   totalPages,
	}, nil
}

// Compile-time interface check
var _ ports.TransactionService = (*TransactionService)(nil)
