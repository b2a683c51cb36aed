package replication

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	clientcommand "github.com/acmesa/branchsync/internal/client/usecase/command"
	orderdomain "github.com/acmesa/branchsync/internal/order/domain"
	ordercommand "github.com/acmesa/branchsync/internal/order/usecase/command"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	productcommand "github.com/acmesa/branchsync/internal/product/usecase/command"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	stockcommand "github.com/acmesa/branchsync/internal/stock/usecase/command"
	userdomain "github.com/acmesa/branchsync/internal/user/domain"
	usercommand "github.com/acmesa/branchsync/internal/user/usecase/command"
	"github.com/acmesa/branchsync/pkg/locker"
)

// Applier decodes inbound events once at the boundary and dispatches each
// to its idempotent apply handler. Malformed or unknown events are rejected
// and never applied.
type Applier struct {
	clients  *clientcommand.ApplyClientEventHandler
	products *productcommand.ApplyProductEventHandler
	users    *usercommand.ApplyUserEventHandler
	stock    *stockcommand.ApplyStockEventHandler
	orders   *ordercommand.ApplyOrderEventHandler
}

// NewApplier wires the apply handlers for every replicated entity
func NewApplier(
	db *gorm.DB,
	locks *locker.KeyLocker,
	clients clientdomain.ClientRepository,
	products productdomain.ProductRepository,
	users userdomain.UserRepository,
	stock stockdomain.StockRepository,
	orders orderdomain.OrderRepository,
) *Applier {
	applyClient := clientcommand.NewApplyClientEventHandler(clients)
	applyProduct := productcommand.NewApplyProductEventHandler(products)
	return &Applier{
		clients:  applyClient,
		products: applyProduct,
		users:    usercommand.NewApplyUserEventHandler(users),
		stock:    stockcommand.NewApplyStockEventHandler(db, locks, products, stock),
		orders:   ordercommand.NewApplyOrderEventHandler(db, applyClient, applyProduct, orders),
	}
}

// Apply dispatches one event and returns the applied entity
func (a *Applier) Apply(event Event) (interface{}, error) {
	switch event.Type {
	case EventClientUpsert:
		var payload ClientUpsertPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, apperrors.NewValidationError("malformed client_upsert payload")
		}
		return a.clients.Handle(payload.Client)

	case EventProductUpsert:
		var payload ProductUpsertPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, apperrors.NewValidationError("malformed product_upsert payload")
		}
		return a.products.Handle(payload.Product)

	case EventUserUpsert:
		var payload UserUpsertPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, apperrors.NewValidationError("malformed user_upsert payload")
		}
		return a.users.Handle(payload.User, payload.PasswordHash)

	case EventStockUpdate:
		var payload StockUpdatePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, apperrors.NewValidationError("malformed stock_update payload")
		}
		// Install the embedded product first so the entry never
		// references a product this node has not seen.
		if payload.Product != nil {
			if _, err := a.products.Handle(*payload.Product); err != nil {
				return nil, err
			}
		}
		return a.stock.Handle(payload.Entry)

	case EventOrderCreated:
		var payload OrderCreatedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, apperrors.NewValidationError("malformed order_created payload")
		}
		return a.orders.Handle(payload.Order, payload.Client, payload.Products)

	default:
		return nil, apperrors.NewValidationError("unknown event type %q", event.Type)
	}
}
