// internal/core/ports/transaction_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// TransactionService defines the interface for sales transaction logic
type TransactionService interface {
	CreateTransaction(ctx context.Context, txn *domain.Transaction) error
	UpdateTransaction(ctx context.Context, id uuid.UUID, newData *domain.Transaction, original *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) (*TransactionListResult, error)
}

// TransactionListResult packages a page of transactions with pagination metadata
type TransactionListResult struct {
	Transactions []*domain.Transaction `json:"transactions"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
}
