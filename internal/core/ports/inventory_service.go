// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// InventoryService defines the interface for inventory business logic
type InventoryService interface {
	SaveItem(ctx context.Context, item *domain.InventoryItem) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, item *domain.InventoryItem) error
	DeleteItem(ctx context.Context, id uuid.UUID, hardDelete bool) error
	ListItems(ctx context.Context, params InventoryListParams) (*InventoryListResult, error)

	// BulkUpsert merges candidate rows into current stock by natural key
	// (item_name, batch_number). Rows matching an existing item add their
	// quantity to the stored quantity and refresh descriptive fields; the
	// rest insert as new items. All writes land atomically.
	BulkUpsert(ctx context.Context, items []domain.InventoryItem) (*BulkUpsertResult, error)
}

// InventoryListResult packages a page of items with pagination metadata
type InventoryListResult struct {
	Items      []*domain.InventoryItem `json:"items"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int                     `json:"total_pages"`
}

// BulkUpsertResult reports how a bulk merge resolved
type BulkUpsertResult struct {
	Merged   int `json:"merged"`
	Inserted int `json:"inserted"`
	Total    int `json:"total"`
}
