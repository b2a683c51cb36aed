package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmesa/branchsync/internal/apperrors"
	productrepository "github.com/acmesa/branchsync/internal/product/repository"
	"github.com/acmesa/branchsync/internal/stock/domain"
	"github.com/acmesa/branchsync/internal/stock/repository"
	"github.com/acmesa/branchsync/internal/testutil"
	"github.com/acmesa/branchsync/pkg/locker"
)

func setupApplyHandler(t *testing.T) (*ApplyStockEventHandler, *productrepository.GormProductRepository, *repository.GormStockRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	products := productrepository.NewGormProductRepository(db)
	stock := repository.NewGormStockRepository(db)
	return NewApplyStockEventHandler(db, locker.New(), products, stock), products, stock
}

func TestApplyStockEventHandler_Handle_HigherVersionWins(t *testing.T) {
	handler, products, stock := setupApplyHandler(t)
	seedProduct(t, products, "p1", true)

	local := &domain.StockEntry{ProductID: "p1", Balance: 5, Version: 2, UpdatedAt: domain.NowUTC(), Origin: "node-a"}
	require.NoError(t, stock.Save(local))

	result, err := handler.Handle(domain.StockEntry{
		ProductID: "p1", Balance: 9, Version: 3, UpdatedAt: domain.NowUTC(), Origin: "node-b",
	})
	require.NoError(t, err)

	assert.Equal(t, 9, result.Balance)
	assert.Equal(t, int64(3), result.Version)
	assert.Equal(t, "node-b", result.Origin)
}

func TestApplyStockEventHandler_Handle_LowerVersionIgnored(t *testing.T) {
	handler, products, stock := setupApplyHandler(t)
	seedProduct(t, products, "p1", true)

	local := &domain.StockEntry{ProductID: "p1", Balance: 5, Version: 4, UpdatedAt: domain.NowUTC(), Origin: "node-a"}
	require.NoError(t, stock.Save(local))

	result, err := handler.Handle(domain.StockEntry{
		ProductID: "p1", Balance: 1, Version: 3, UpdatedAt: domain.NowUTC(), Origin: "node-b",
	})
	require.NoError(t, err)

	// Local entry survives untouched
	assert.Equal(t, 5, result.Balance)
	assert.Equal(t, int64(4), result.Version)
	assert.Equal(t, "node-a", result.Origin)
}

func TestApplyStockEventHandler_Handle_EqualVersionTimestampBreaksTie(t *testing.T) {
	handler, products, stock := setupApplyHandler(t)
	seedProduct(t, products, "p1", true)

	require.NoError(t, stock.Save(&domain.StockEntry{
		ProductID: "p1", Balance: 5, Version: 2,
		UpdatedAt: "2026-08-01T10:00:00.000000000Z", Origin: "node-a",
	}))

	// Later timestamp at the same version wins
	result, err := handler.Handle(domain.StockEntry{
		ProductID: "p1", Balance: 7, Version: 2,
		UpdatedAt: "2026-08-01T10:00:00.000000001Z", Origin: "node-b",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Balance)

	// Earlier timestamp at the same version is ignored
	result, err = handler.Handle(domain.StockEntry{
		ProductID: "p1", Balance: 3, Version: 2,
		UpdatedAt: "2026-08-01T09:59:59.000000000Z", Origin: "node-c",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Balance)
	assert.Equal(t, "node-b", result.Origin)
}

func TestApplyStockEventHandler_Handle_Idempotent(t *testing.T) {
	handler, products, _ := setupApplyHandler(t)
	seedProduct(t, products, "p1", true)

	incoming := domain.StockEntry{
		ProductID: "p1", Balance: 9, Version: 3, UpdatedAt: domain.NowUTC(), Origin: "node-b",
	}

	first, err := handler.Handle(incoming)
	require.NoError(t, err)
	second, err := handler.Handle(incoming)
	require.NoError(t, err)

	assert.Equal(t, first.Balance, second.Balance)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.Origin, second.Origin)
}

func TestApplyStockEventHandler_Handle_ConvergesRegardlessOfArrivalOrder(t *testing.T) {
	older := domain.StockEntry{ProductID: "p1", Balance: 4, Version: 1, UpdatedAt: "2026-08-01T10:00:00Z", Origin: "node-a"}
	newer := domain.StockEntry{ProductID: "p1", Balance: 9, Version: 2, UpdatedAt: "2026-08-01T11:00:00Z", Origin: "node-b"}

	for name, sequence := range map[string][]domain.StockEntry{
		"older first": {older, newer},
		"newer first": {newer, older},
	} {
		t.Run(name, func(t *testing.T) {
			handler, products, stock := setupApplyHandler(t)
			seedProduct(t, products, "p1", true)

			for _, event := range sequence {
				_, err := handler.Handle(event)
				require.NoError(t, err)
			}

			final, err := stock.FindByProductID("p1")
			require.NoError(t, err)
			assert.Equal(t, 9, final.Balance)
			assert.Equal(t, int64(2), final.Version)
			assert.Equal(t, "node-b", final.Origin)
		})
	}
}

func TestApplyStockEventHandler_Handle_UnknownProduct(t *testing.T) {
	handler, _, _ := setupApplyHandler(t)

	_, err := handler.Handle(domain.StockEntry{ProductID: "ghost", Balance: 1, Version: 1})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestApplyStockEventHandler_Handle_MissingProductID(t *testing.T) {
	handler, _, _ := setupApplyHandler(t)

	_, err := handler.Handle(domain.StockEntry{Balance: 1, Version: 1})
	assert.True(t, apperrors.IsValidationError(err))
}
