// internal/core/services/inventory.go
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

// InventoryService implements business logic for inventory management
type InventoryService struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

// NewInventoryService creates a new inventory service instance
func NewInventoryService(
	repo ports.InventoryRepository,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		repo:   repo,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// SaveItem validates and persists a single inventory item
func (s *InventoryService) SaveItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	item.PrepareForStorage()

	if err := s.repo.Save(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to save inventory item",
			slog.String("item_name", item.ItemName),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save inventory item: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory item saved",
		slog.String("id", item.ID.String()),
		slog.String("item_name", item.ItemName),
		slog.String("batch_number", item.BatchNumber))
	return nil
}

// GetItemByID retrieves a single item
func (s *InventoryService) GetItemByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item == nil {
		return nil, domain.ItemNotFoundError(id)
	}
	return item, nil
}

// UpdateItem replaces the stored fields of an existing item
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, item *domain.InventoryItem) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up inventory item: %w", err)
	}
	if existing == nil {
		return domain.ItemNotFoundError(id)
	}

	item.ID = id
	item.CreatedAt = existing.CreatedAt
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory item updated",
		slog.String("id", id.String()))
	return nil
}

// DeleteItem removes an item, either soft or hard
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID, hardDelete bool) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check inventory item: %w", err)
	}
	if !exists {
		return domain.ItemNotFoundError(id)
	}

	if hardDelete {
		err = s.repo.Delete(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("id", id.String()),
		slog.Bool("hard_delete", hardDelete))
	return nil
}

// ListItems retrieves a filtered, paginated slice of inventory
func (s *InventoryService) ListItems(ctx context.Context, params ports.InventoryListParams) (*ports.InventoryListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 200 {
		params.PageSize = 50
	}

	items, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(params.PageSize)))
	return &ports.InventoryListResult{
		Items:      items,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// BulkUpsert merges candidate rows into current stock by natural key.
//
// All lookups run against the state of the store before any write from
// this call lands, then the staged plan commits in one batch. Two new
// candidates carrying the same natural key both miss the lookup and are
// inserted as two separate rows; in-batch visibility is a known
// limitation, not something this layer papers over.
func (s *InventoryService) BulkUpsert(ctx context.Context, items []domain.InventoryItem) (*ports.BulkUpsertResult, error) {
	if len(items) == 0 {
		return &ports.BulkUpsertResult{}, nil
	}

	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): %s", domain.ErrValidation, i+1, items[i].ItemName, err)
		}
	}

	plan := ports.UpsertPlan{}
	for i := range items {
		candidate := items[i]
		key := candidate.NaturalKey()

		existing, err := s.repo.FindByNaturalKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %q batch %q: %w", key.ItemName, key.BatchNumber, err)
		}

		if existing != nil {
			merged := *existing
			merged.Quantity += candidate.Quantity
			merged.ItemType = candidate.ItemType
			merged.Category = candidate.Category
			merged.Unit = candidate.Unit
			merged.PurchasePrice = candidate.PurchasePrice
			merged.SellingPriceRJ = candidate.SellingPriceRJ
			merged.SellingPriceRI = candidate.SellingPriceRI
			merged.Supplier = candidate.Supplier
			merged.InputDate = candidate.InputDate
			merged.ExpiredDate = candidate.ExpiredDate
			plan.Updates = append(plan.Updates, merged)
		} else {
			candidate.PrepareForStorage()
			plan.Inserts = append(plan.Inserts, candidate)
		}
	}

	if err := s.repo.ApplyUpsertBatch(ctx, plan); err != nil {
		s.logger.ErrorContext(ctx, "bulk upsert failed",
			slog.Int("updates", len(plan.Updates)),
			slog.Int("inserts", len(plan.Inserts)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to apply bulk upsert: %w", err)
	}

	result := &ports.BulkUpsertResult{
		Merged:   len(plan.Updates),
		Inserted: len(plan.Inserts),
		Total:    len(items),
	}
	s.logger.InfoContext(ctx, "bulk upsert complete",
		slog.Int("merged", result.Merged),
		slog.Int("inserted", result.Inserted))
	return result, nil
}

// Compile-time interface check
var _ ports.InventoryService = (*InventoryService)(nil)
