//go:build integration
// +build integration

package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/sehatindo/apotek-be/internal/adapters/db"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/test/helpers"
)

type TransactionRepositorySuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	repo      *db.TransactionRepository
	inventory *db.InventoryRepository
	ctx       context.Context
}

func (s *TransactionRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewTransactionRepository(s.testDB.Database, helpers.TestLogger())
	s.inventory = db.NewInventoryRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *TransactionRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

// seedLots persists fresh inventory rows and returns them by value for
// building transactions against.
func (s *TransactionRepositorySuite) seedLots(count int) []domain.InventoryItem {
	items := helpers.CreateTestInventoryItems(count)
	for i := range items {
		s.Require().NoError(s.inventory.Save(s.ctx, &items[i]))
	}
	return items
}

func (s *TransactionRepositorySuite) stockOf(id uuid.UUID) int {
	item, err := s.inventory.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(item)
	return item.Quantity
}

func (s *TransactionRepositorySuite) TestCreate_DecrementsStock() {
	lots := s.seedLots(2)
	before0 := s.stockOf(lots[0].ID)
	before1 := s.stockOf(lots[1].ID)

	txn := helpers.CreateTestTransaction(lots)
	s.Require().NoError(s.repo.Create(s.ctx, txn))

	s.Equal(before0-txn.Items[0].Quantity, s.stockOf(lots[0].ID))
	s.Equal(before1-txn.Items[1].Quantity, s.stockOf(lots[1].ID))

	stored, err := s.repo.FindByID(s.ctx, txn.ID)
	s.NoError(err)
	s.Require().NotNil(stored)
	s.Equal(txn.MedicalRecordNumber, stored.MedicalRecordNumber)
	s.Len(stored.Items, 2)
	s.True(txn.TotalPrice.Equal(stored.TotalPrice))
}

func (s *TransactionRepositorySuite) TestCreate_InsufficientStockRollsBackEverything() {
	lots := s.seedLots(2)
	before0 := s.stockOf(lots[0].ID)
	before1 := s.stockOf(lots[1].ID)

	txn := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
		// First line is satisfiable, second is not. Neither may commit.
		tr.Items[1].Quantity = before1 + 1
	})
	txn.ComputeTotal()

	err := s.repo.Create(s.ctx, txn)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrInsufficientStock)

	s.Equal(before0, s.stockOf(lots[0].ID), "satisfiable line must not commit alone")
	s.Equal(before1, s.stockOf(lots[1].ID))

	stored, err := s.repo.FindByID(s.ctx, txn.ID)
	s.NoError(err)
	s.Nil(stored)
}

func (s *TransactionRepositorySuite) TestCreate_UnknownItem() {
	lots := s.seedLots(1)

	txn := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
		tr.Items[0].ItemID = uuid.New()
	})

	err := s.repo.Create(s.ctx, txn)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrItemNotFound)
}

func (s *TransactionRepositorySuite) TestDelete_RestoresStock() {
	lots := s.seedLots(2)
	before0 := s.stockOf(lots[0].ID)

	txn := helpers.CreateTestTransaction(lots)
	s.Require().NoError(s.repo.Create(s.ctx, txn))
	s.Equal(before0-txn.Items[0].Quantity, s.stockOf(lots[0].ID))

	s.Require().NoError(s.repo.Delete(s.ctx, txn.ID, txn))

	s.Equal(before0, s.stockOf(lots[0].ID))

	stored, err := s.repo.FindByID(s.ctx, txn.ID)
	s.NoError(err)
	s.Nil(stored)
}

func (s *TransactionRepositorySuite) TestDelete_SkipsRestoreForRemovedItems() {
	lots := s.seedLots(2)

	txn := helpers.CreateTestTransaction(lots)
	s.Require().NoError(s.repo.Create(s.ctx, txn))

	// Hard-delete one of the sold items; the reversal must still succeed
	// and restore the surviving one.
	s.Require().NoError(s.inventory.Delete(s.ctx, lots[0].ID))
	before1 := s.stockOf(lots[1].ID)

	s.Require().NoError(s.repo.Delete(s.ctx, txn.ID, txn))

	s.Equal(before1+txn.Items[1].Quantity, s.stockOf(lots[1].ID))
}

func (s *TransactionRepositorySuite) TestUpdate_ConservesStock() {
	lots := s.seedLots(1)
	before := s.stockOf(lots[0].ID)

	original := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
		tr.Items[0].Quantity = 4
	})
	original.ComputeTotal()
	s.Require().NoError(s.repo.Create(s.ctx, original))
	s.Equal(before-4, s.stockOf(lots[0].ID))

	replacement := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
		tr.Items[0].Quantity = 10
	})
	replacement.ComputeTotal()

	s.Require().NoError(s.repo.Update(s.ctx, original.ID, replacement, original))

	// Net effect is the replacement's quantity alone.
	s.Equal(before-10, s.stockOf(lots[0].ID))

	stored, err := s.repo.FindByID(s.ctx, original.ID)
	s.NoError(err)
	s.Require().NotNil(stored)
	s.Require().Len(stored.Items, 1)
	s.Equal(10, stored.Items[0].Quantity)
}

func (s *TransactionRepositorySuite) TestUpdate_MissingTransaction() {
	lots := s.seedLots(1)
	txn := helpers.CreateTestTransaction(lots)

	err := s.repo.Update(s.ctx, uuid.New(), txn, txn)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestDelete_MissingTransaction() {
	lots := s.seedLots(1)
	txn := helpers.CreateTestTransaction(lots)

	err := s.repo.Delete(s.ctx, uuid.New(), txn)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestConcurrentCreates_NeverOversell() {
	lots := s.seedLots(1)

	// Pin the stock to a known value and hammer it from both sides.
	_, err := s.testDB.PgxPool.Exec(s.ctx,
		"UPDATE inventory SET quantity = 10 WHERE id = $1", lots[0].ID)
	s.Require().NoError(err)
	lots[0].Quantity = 10

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			txn := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
				tr.Items[0].Quantity = 3
			})
			txn.ComputeTotal()
			errs[n] = s.repo.Create(s.ctx, txn)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(
			domainError(err),
			"concurrent create must fail with a business or conflict error, got: %v", err)
	}

	// 10 units at 3 per sale admits at most 3 commits.
	s.LessOrEqual(succeeded, 3)
	s.GreaterOrEqual(s.stockOf(lots[0].ID), 0)
	s.Equal(10-succeeded*3, s.stockOf(lots[0].ID))
}

// domainError reports whether err is one of the expected ledger outcomes
// under contention.
func domainError(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrStoreConflict)
}

func TestTransactionRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(TransactionRepositorySuite))
}

func (s *TransactionRepositorySuite) TestFindAll_Filters() {
	lots := s.seedLots(2)

	bpjs := helpers.CreateTestTransaction(lots, func(tr *domain.Transaction) {
		tr.PaymentMethod = domain.PaymentBPJS
	})
	s.Require().NoError(s.repo.Create(s.ctx, bpjs))

	umum := helpers.CreateTestTransaction(lots)
	s.Require().NoError(s.repo.Create(s.ctx, umum))

	listed, total, err := s.repo.FindAll(s.ctx, ports.TransactionListParams{
		PaymentMethod: string(domain.PaymentBPJS),
		Page:          1,
		PageSize:      50,
	})
	s.NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(listed, 1)
	s.Equal(bpjs.ID, listed[0].ID)
	s.Len(listed[0].Items, 2)
}
