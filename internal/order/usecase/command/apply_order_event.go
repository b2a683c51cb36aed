package command

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	clientcommand "github.com/acmesa/branchsync/internal/client/usecase/command"
	"github.com/acmesa/branchsync/internal/order/domain"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	productcommand "github.com/acmesa/branchsync/internal/product/usecase/command"
)

// ApplyOrderEventHandler applies a replicated order. Embedded client and
// product payloads are installed first so the order rows never reference
// entities the node has not seen; stock is not revalidated, its consistency
// arrives through separate stock_update events.
type ApplyOrderEventHandler struct {
	db       *gorm.DB
	clients  *clientcommand.ApplyClientEventHandler
	products *productcommand.ApplyProductEventHandler
	orders   domain.OrderRepository
}

// NewApplyOrderEventHandler creates a new apply order event handler
func NewApplyOrderEventHandler(
	db *gorm.DB,
	clients *clientcommand.ApplyClientEventHandler,
	products *productcommand.ApplyProductEventHandler,
	orders domain.OrderRepository,
) *ApplyOrderEventHandler {
	return &ApplyOrderEventHandler{
		db:       db,
		clients:  clients,
		products: products,
		orders:   orders,
	}
}

// Handle applies the order payload; replaying the same event is a no-op change
func (h *ApplyOrderEventHandler) Handle(payload domain.Order, client *clientdomain.Client, products []productdomain.Product) (*domain.Order, error) {
	if payload.ID == "" {
		return nil, apperrors.NewValidationError("order payload requires an id")
	}

	if client != nil {
		if _, err := h.clients.Handle(*client); err != nil {
			return nil, fmt.Errorf("failed to apply embedded client: %w", err)
		}
	}
	for _, product := range products {
		if _, err := h.products.Handle(product); err != nil {
			return nil, fmt.Errorf("failed to apply embedded product: %w", err)
		}
	}

	order := payload
	if order.Status == "" {
		order.Status = domain.StatusConfirmed
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if order.Origin == "" {
		order.Origin = "replica"
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		return h.orders.WithTx(tx).Upsert(&order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply order event: %w", err)
	}

	names := make(map[string]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}
	for i := range order.Items {
		if order.Items[i].ProductName == "" {
			order.Items[i].ProductName = names[order.Items[i].ProductID]
		}
	}
	if client != nil && order.ClientName == "" {
		order.ClientName = client.Name
	}
	return &order, nil
}
