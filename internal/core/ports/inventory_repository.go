// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// UpsertPlan is the staged outcome of the bulk merge: updates replace
// existing rows (with quantities already summed by the service), inserts
// carry freshly allocated ids. ApplyUpsertBatch commits the whole plan
// atomically or not at all.
type UpsertPlan struct {
	Updates []domain.InventoryItem
	Inserts []domain.InventoryItem
}

// Empty reports whether the plan stages no writes.
func (p UpsertPlan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Inserts) == 0
}

// InventoryRepository defines the persistence port for inventory.
// This interface is implemented by the database adapter.
type InventoryRepository interface {
	Save(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error)
	// FindByNaturalKey resolves (item_name, batch_number) against the
	// current store state; nil when no live row matches.
	FindByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.InventoryItem, error)
	FindAll(ctx context.Context, params InventoryListParams) ([]*domain.InventoryItem, int64, error)
	// ApplyUpsertBatch stages every write of the plan into one batch and
	// commits it as a single unit.
	ApplyUpsertBatch(ctx context.Context, plan UpsertPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// InventoryListParams holds query parameters for listing inventory
type InventoryListParams struct {
	Search        string
	ItemType      string
	Category      string
	Supplier      string
	LowStockBelow *int
	ExpiringDays  *int
	SortBy        string
	SortOrder     string
	Page          int
	PageSize      int
}
