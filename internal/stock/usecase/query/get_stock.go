package query

import (
	"errors"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/stock/domain"
)

// GetStockQuery represents the query to read one product's stock entry
type GetStockQuery struct {
	ProductID string
}

// GetStockHandler handles get stock query. Reading a product that has no
// entry yet creates it with balance 0 and version 0.
type GetStockHandler struct {
	db       *gorm.DB
	products productdomain.ProductRepository
	stock    domain.StockRepository
}

// NewGetStockHandler creates a new get stock handler
func NewGetStockHandler(db *gorm.DB, products productdomain.ProductRepository, stock domain.StockRepository) *GetStockHandler {
	return &GetStockHandler{db: db, products: products, stock: stock}
}

// Handle executes the get stock query
func (h *GetStockHandler) Handle(q GetStockQuery) (*domain.StockEntry, error) {
	var result *domain.StockEntry
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if _, err := h.products.WithTx(tx).FindByID(q.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("product %s not found", q.ProductID)
			}
			return err
		}

		entry, err := h.stock.WithTx(tx).FindOrCreate(q.ProductID)
		if err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
