package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	"github.com/acmesa/branchsync/internal/order/domain"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	"github.com/acmesa/branchsync/pkg/locker"
)

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// RegisterOrderCommand represents the command to register an order. OrderID
// is optional; passing one makes the call idempotent under that id.
type RegisterOrderCommand struct {
	OrderID  string
	ClientID string
	Items    []OrderItemInput
}

// RegisterOrderResult carries everything the replication layer needs to
// build self-contained events: a remote node cannot resolve product names on
// its own.
type RegisterOrderResult struct {
	Order    *domain.Order
	Entries  []stockdomain.StockEntry
	Products map[string]productdomain.Product
}

// RegisterOrderHandler handles the atomic multi-product order workflow
type RegisterOrderHandler struct {
	db       *gorm.DB
	locks    *locker.KeyLocker
	clients  clientdomain.ClientRepository
	products productdomain.ProductRepository
	stock    stockdomain.StockRepository
	orders   domain.OrderRepository
	nodeName string
}

// NewRegisterOrderHandler creates a new register order handler
func NewRegisterOrderHandler(
	db *gorm.DB,
	locks *locker.KeyLocker,
	clients clientdomain.ClientRepository,
	products productdomain.ProductRepository,
	stock stockdomain.StockRepository,
	orders domain.OrderRepository,
	nodeName string,
) *RegisterOrderHandler {
	return &RegisterOrderHandler{
		db:       db,
		locks:    locks,
		clients:  clients,
		products: products,
		stock:    stock,
		orders:   orders,
		nodeName: nodeName,
	}
}

// Handle executes the register order command. Locks for the full product set
// are taken in one call before the transaction opens; every item is
// validated before any stock is debited, so the order either commits whole
// or leaves no trace.
func (h *RegisterOrderHandler) Handle(cmd RegisterOrderCommand) (*RegisterOrderResult, error) {
	if cmd.ClientID == "" {
		return nil, apperrors.NewValidationError("client id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, apperrors.NewValidationError("order requires at least one item")
	}
	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return nil, apperrors.NewValidationError("order item requires a product id")
		}
		if item.Quantity <= 0 {
			return nil, apperrors.NewValidationError("order item quantity must be positive")
		}
	}

	orderID := cmd.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	productIDs := make([]string, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	held := h.locks.Acquire(productIDs...)
	defer h.locks.Release(held)

	var result *RegisterOrderResult
	err := h.db.Transaction(func(tx *gorm.DB) error {
		clients := h.clients.WithTx(tx)
		products := h.products.WithTx(tx)
		stock := h.stock.WithTx(tx)
		orders := h.orders.WithTx(tx)

		client, err := clients.FindByID(cmd.ClientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("client %s not found", cmd.ClientID)
			}
			return apperrors.NewInternalError("failed to load client", err)
		}

		// Validate every item before touching any balance.
		resolved := make(map[string]productdomain.Product, len(cmd.Items))
		for _, item := range cmd.Items {
			product, err := products.FindByID(item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewNotFoundError("product %s not found", item.ProductID)
				}
				return apperrors.NewInternalError("failed to load product", err)
			}
			if !product.Active {
				return apperrors.NewValidationError("product %s is inactive", item.ProductID)
			}
			resolved[item.ProductID] = *product

			entry, err := stock.FindOrCreate(item.ProductID)
			if err != nil {
				return apperrors.NewInternalError("failed to load stock entry", err)
			}
			if entry.Balance < item.Quantity {
				return apperrors.NewConflictError("insufficient stock for product %s", item.ProductID)
			}
		}

		reference := fmt.Sprintf("order:%s", orderID)
		entries := make([]stockdomain.StockEntry, 0, len(cmd.Items))
		for _, item := range cmd.Items {
			entry, err := stock.FindOrCreate(item.ProductID)
			if err != nil {
				return apperrors.NewInternalError("failed to load stock entry", err)
			}
			newBalance := entry.Balance - item.Quantity
			if newBalance < 0 {
				// Duplicate lines for the same product can pass the
				// per-line pre-check and still overdraw here.
				return apperrors.NewConflictError("insufficient stock for product %s", item.ProductID)
			}
			entry.Balance = newBalance
			entry.Version++
			entry.UpdatedAt = stockdomain.NowUTC()
			entry.Origin = h.nodeName
			ref := reference
			entry.Reference = &ref
			if err := stock.Save(entry); err != nil {
				return apperrors.NewInternalError("failed to save stock entry", err)
			}
			entries = append(entries, *entry)
		}

		items := make([]domain.OrderItem, 0, len(cmd.Items))
		for _, item := range cmd.Items {
			items = append(items, domain.OrderItem{
				OrderID:     orderID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ProductName: resolved[item.ProductID].Name,
			})
		}

		order := &domain.Order{
			ID:         orderID,
			ClientID:   client.ID,
			ClientName: client.Name,
			Status:     domain.StatusConfirmed,
			CreatedAt:  time.Now().UTC(),
			Origin:     h.nodeName,
			Items:      items,
		}
		if err := orders.Upsert(order); err != nil {
			return apperrors.NewInternalError("failed to save order", err)
		}

		result = &RegisterOrderResult{
			Order:    order,
			Entries:  entries,
			Products: resolved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
