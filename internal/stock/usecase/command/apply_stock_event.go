package command

import (
	"errors"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/stock/domain"
	"github.com/acmesa/branchsync/pkg/locker"
)

// ApplyStockEventHandler merges a replicated stock entry. The incoming entry
// wins only on a strictly greater version, or on a strictly greater
// timestamp at equal version; anything else is a stale duplicate and is
// dropped without touching local state.
type ApplyStockEventHandler struct {
	db       *gorm.DB
	locks    *locker.KeyLocker
	products productdomain.ProductRepository
	stock    domain.StockRepository
}

// NewApplyStockEventHandler creates a new apply stock event handler
func NewApplyStockEventHandler(db *gorm.DB, locks *locker.KeyLocker, products productdomain.ProductRepository, stock domain.StockRepository) *ApplyStockEventHandler {
	return &ApplyStockEventHandler{
		db:       db,
		locks:    locks,
		products: products,
		stock:    stock,
	}
}

// Handle merges the incoming entry and returns whichever entry won
func (h *ApplyStockEventHandler) Handle(incoming domain.StockEntry) (*domain.StockEntry, error) {
	if incoming.ProductID == "" {
		return nil, apperrors.NewValidationError("stock payload requires a product id")
	}

	held := h.locks.Acquire(incoming.ProductID)
	defer h.locks.Release(held)

	var result *domain.StockEntry
	err := h.db.Transaction(func(tx *gorm.DB) error {
		products := h.products.WithTx(tx)
		stock := h.stock.WithTx(tx)

		product, err := products.FindByID(incoming.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("product %s not found", incoming.ProductID)
			}
			return apperrors.NewInternalError("failed to load product", err)
		}
		if !product.Active {
			return apperrors.NewValidationError("product %s is inactive", incoming.ProductID)
		}

		local, err := stock.FindOrCreate(incoming.ProductID)
		if err != nil {
			return apperrors.NewInternalError("failed to load stock entry", err)
		}

		if !incoming.NewerThan(local) {
			result = local
			return nil
		}

		if incoming.UpdatedAt == "" {
			incoming.UpdatedAt = domain.NowUTC()
		}
		if err := stock.Save(&incoming); err != nil {
			return apperrors.NewInternalError("failed to save stock entry", err)
		}
		result = &incoming
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
