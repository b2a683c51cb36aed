package command

import (
	"errors"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/stock/domain"
	"github.com/acmesa/branchsync/pkg/locker"
)

// AdjustStockCommand represents a manual stock movement for one product
type AdjustStockCommand struct {
	ProductID string
	Delta     int
	Reason    string
}

// AdjustStockHandler handles the stock adjustment workflow: one product
// lock, one transaction, balance never below zero, version bumped exactly
// once per accepted mutation.
type AdjustStockHandler struct {
	db       *gorm.DB
	locks    *locker.KeyLocker
	products productdomain.ProductRepository
	stock    domain.StockRepository
	nodeName string
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(db *gorm.DB, locks *locker.KeyLocker, products productdomain.ProductRepository, stock domain.StockRepository, nodeName string) *AdjustStockHandler {
	return &AdjustStockHandler{
		db:       db,
		locks:    locks,
		products: products,
		stock:    stock,
		nodeName: nodeName,
	}
}

// Handle executes the adjust stock command
func (h *AdjustStockHandler) Handle(cmd AdjustStockCommand) (*domain.StockEntry, error) {
	if cmd.ProductID == "" {
		return nil, apperrors.NewValidationError("product id is required")
	}
	if cmd.Delta == 0 {
		return nil, apperrors.NewValidationError("delta cannot be zero")
	}

	held := h.locks.Acquire(cmd.ProductID)
	defer h.locks.Release(held)

	var result *domain.StockEntry
	err := h.db.Transaction(func(tx *gorm.DB) error {
		products := h.products.WithTx(tx)
		stock := h.stock.WithTx(tx)

		product, err := products.FindByID(cmd.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("product %s not found", cmd.ProductID)
			}
			return apperrors.NewInternalError("failed to load product", err)
		}
		if !product.Active {
			return apperrors.NewValidationError("product %s is inactive", cmd.ProductID)
		}

		entry, err := stock.FindOrCreate(cmd.ProductID)
		if err != nil {
			return apperrors.NewInternalError("failed to load stock entry", err)
		}

		newBalance := entry.Balance + cmd.Delta
		if newBalance < 0 {
			return apperrors.NewConflictError("insufficient stock for product %s", cmd.ProductID)
		}

		reference := cmd.Reason
		entry.Balance = newBalance
		entry.Version++
		entry.UpdatedAt = domain.NowUTC()
		entry.Origin = h.nodeName
		entry.Reference = &reference

		if err := stock.Save(entry); err != nil {
			return apperrors.NewInternalError("failed to save stock entry", err)
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
