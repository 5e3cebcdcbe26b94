//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/sehatindo/apotek-be/internal/adapters/db"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/test/helpers"
)

type InventoryRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   *db.InventoryRepository
	ctx    context.Context
}

func (s *InventoryRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewInventoryRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *InventoryRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *InventoryRepositorySuite) TestSaveAndFindByID() {
	item := helpers.CreateTestInventoryItem()

	err := s.repo.Save(s.ctx, item)
	s.NoError(err)
	s.NotEqual(uuid.Nil, item.ID)

	saved, err := s.repo.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Require().NotNil(saved)
	s.Equal(item.ItemName, saved.ItemName)
	s.Equal(item.BatchNumber, saved.BatchNumber)
	s.True(item.PurchasePrice.Equal(saved.PurchasePrice))
	s.Equal(item.Quantity, saved.Quantity)
}

func (s *InventoryRepositorySuite) TestFindByID_Missing() {
	saved, err := s.repo.FindByID(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(saved)
}

func (s *InventoryRepositorySuite) TestFindByNaturalKey_ExactMatch() {
	item := helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.ItemName = "Paracetamol 500mg"
		i.BatchNumber = "B0011234"
	})
	s.NoError(s.repo.Save(s.ctx, item))

	found, err := s.repo.FindByNaturalKey(s.ctx, item.NaturalKey())
	s.NoError(err)
	s.Require().NotNil(found)
	s.Equal(item.ID, found.ID)

	// A key differing only in case is a different key.
	missed, err := s.repo.FindByNaturalKey(s.ctx, domain.NaturalKey{
		ItemName:    "PARACETAMOL 500MG",
		BatchNumber: "b0011234",
	})
	s.NoError(err)
	s.Nil(missed)
}

func (s *InventoryRepositorySuite) TestFindByNaturalKey_IgnoresSoftDeleted() {
	item := helpers.CreateTestInventoryItem()
	s.NoError(s.repo.Save(s.ctx, item))
	s.NoError(s.repo.SoftDelete(s.ctx, item.ID))

	found, err := s.repo.FindByNaturalKey(s.ctx, item.NaturalKey())
	s.NoError(err)
	s.Nil(found)
}

func (s *InventoryRepositorySuite) TestApplyUpsertBatch() {
	existing := helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.Quantity = 100
	})
	s.NoError(s.repo.Save(s.ctx, existing))

	merged := *existing
	merged.Quantity = 140
	merged.PurchasePrice = decimal.NewFromInt(375)

	fresh := *helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.ItemName = "Cefixime 100mg"
		i.BatchNumber = "B0099999"
		i.Quantity = 60
	})

	err := s.repo.ApplyUpsertBatch(s.ctx, ports.UpsertPlan{
		Updates: []domain.InventoryItem{merged},
		Inserts: []domain.InventoryItem{fresh},
	})
	s.NoError(err)

	stored, err := s.repo.FindByID(s.ctx, existing.ID)
	s.NoError(err)
	s.Require().NotNil(stored)
	s.Equal(140, stored.Quantity)
	s.True(stored.PurchasePrice.Equal(decimal.NewFromInt(375)))

	inserted, err := s.repo.FindByNaturalKey(s.ctx, fresh.NaturalKey())
	s.NoError(err)
	s.Require().NotNil(inserted)
	s.Equal(60, inserted.Quantity)

	count, err := s.repo.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(2), count)
}

// The natural key carries no store-level unique constraint: a batch
// holding two inserts with the same (item_name, batch_number) commits
// both rows.
func (s *InventoryRepositorySuite) TestApplyUpsertBatch_SameKeyInsertsBothCommit() {
	first := *helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.ItemName = "Amoxicillin 500mg"
		i.BatchNumber = "AMX-26-002"
		i.Quantity = 30
	})
	second := first
	second.ID = uuid.New()
	second.Quantity = 45

	err := s.repo.ApplyUpsertBatch(s.ctx, ports.UpsertPlan{
		Inserts: []domain.InventoryItem{first, second},
	})
	s.NoError(err)

	count, err := s.repo.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(2), count)

	stored, err := s.repo.FindByID(s.ctx, first.ID)
	s.NoError(err)
	s.Require().NotNil(stored)
	s.Equal(30, stored.Quantity)

	twin, err := s.repo.FindByID(s.ctx, second.ID)
	s.NoError(err)
	s.Require().NotNil(twin)
	s.Equal(45, twin.Quantity)
}

func (s *InventoryRepositorySuite) TestSoftDeleteHidesFromListing() {
	items := helpers.CreateTestInventoryItems(3)
	for i := range items {
		s.NoError(s.repo.Save(s.ctx, &items[i]))
	}

	s.NoError(s.repo.SoftDelete(s.ctx, items[0].ID))

	listed, total, err := s.repo.FindAll(s.ctx, ports.InventoryListParams{Page: 1, PageSize: 50})
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Len(listed, 2)
	for _, it := range listed {
		s.NotEqual(items[0].ID, it.ID)
	}
}

func (s *InventoryRepositorySuite) TestHardDeleteRemovesRow() {
	item := helpers.CreateTestInventoryItem()
	s.NoError(s.repo.Save(s.ctx, item))
	s.NoError(s.repo.Delete(s.ctx, item.ID))

	exists, err := s.repo.Exists(s.ctx, item.ID)
	s.NoError(err)
	s.False(exists)
}

func (s *InventoryRepositorySuite) TestFindAllFilters() {
	s.NoError(s.repo.Save(s.ctx, helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.ItemName = "Paracetamol 500mg"
		i.BatchNumber = "B0010001"
		i.ItemType = domain.TypeObat
	})))
	s.NoError(s.repo.Save(s.ctx, helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.ItemName = "Nebulizer Kit"
		i.BatchNumber = "B0010002"
		i.ItemType = domain.TypeAlkes
		i.Category = domain.CategoryAlatMedis
	})))

	listed, total, err := s.repo.FindAll(s.ctx, ports.InventoryListParams{
		ItemType: string(domain.TypeAlkes),
		Page:     1,
		PageSize: 50,
	})
	s.NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(listed, 1)
	s.Equal("Nebulizer Kit", listed[0].ItemName)

	listed, total, err = s.repo.FindAll(s.ctx, ports.InventoryListParams{
		Search:   "paraceta",
		Page:     1,
		PageSize: 50,
	})
	s.NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(listed, 1)
	s.Equal("Paracetamol 500mg", listed[0].ItemName)
}

func TestInventoryRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(InventoryRepositorySuite))
}
