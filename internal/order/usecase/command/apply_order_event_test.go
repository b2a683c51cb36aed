package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmesa/branchsync/internal/apperrors"
	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	clientrepository "github.com/acmesa/branchsync/internal/client/repository"
	clientcommand "github.com/acmesa/branchsync/internal/client/usecase/command"
	"github.com/acmesa/branchsync/internal/order/domain"
	"github.com/acmesa/branchsync/internal/order/repository"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	productrepository "github.com/acmesa/branchsync/internal/product/repository"
	productcommand "github.com/acmesa/branchsync/internal/product/usecase/command"
	"github.com/acmesa/branchsync/internal/testutil"
)

func setupApplyOrderFixture(t *testing.T) (*ApplyOrderEventHandler, *clientrepository.GormClientRepository, *productrepository.GormProductRepository, *repository.GormOrderRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clients := clientrepository.NewGormClientRepository(db)
	products := productrepository.NewGormProductRepository(db)
	orders := repository.NewGormOrderRepository(db)
	handler := NewApplyOrderEventHandler(
		db,
		clientcommand.NewApplyClientEventHandler(clients),
		productcommand.NewApplyProductEventHandler(products),
		orders,
	)
	return handler, clients, products, orders
}

func remoteOrder() domain.Order {
	return domain.Order{
		ID:        "order-remote-1",
		ClientID:  "c1",
		Status:    "confirmed",
		CreatedAt: time.Now().UTC(),
		Origin:    "node-b",
		Items: []domain.OrderItem{
			{OrderID: "order-remote-1", ProductID: "p1", Quantity: 2},
		},
	}
}

func TestApplyOrderEventHandler_Handle_InstallsEmbeddedEntitiesFirst(t *testing.T) {
	handler, clients, products, orders := setupApplyOrderFixture(t)

	// Neither the client nor the product exists locally yet
	applied, err := handler.Handle(
		remoteOrder(),
		&clientdomain.Client{ID: "c1", Name: "Acme Retail"},
		[]productdomain.Product{{ID: "p1", Name: "Widget", Active: true}},
	)
	require.NoError(t, err)

	client, err := clients.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Retail", client.Name)

	product, err := products.FindByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)

	stored, err := orders.FindByID("order-remote-1")
	require.NoError(t, err)
	assert.Equal(t, "node-b", stored.Origin)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	assert.Equal(t, "Acme Retail", applied.ClientName)
	assert.Equal(t, "Widget", applied.Items[0].ProductName)
}

func TestApplyOrderEventHandler_Handle_ReplayIsIdempotent(t *testing.T) {
	handler, _, _, orders := setupApplyOrderFixture(t)

	payload := remoteOrder()
	client := &clientdomain.Client{ID: "c1", Name: "Acme Retail"}
	embedded := []productdomain.Product{{ID: "p1", Name: "Widget", Active: true}}

	_, err := handler.Handle(payload, client, embedded)
	require.NoError(t, err)
	_, err = handler.Handle(payload, client, embedded)
	require.NoError(t, err)

	count, err := orders.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := orders.FindByID("order-remote-1")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestApplyOrderEventHandler_Handle_DefaultsMissingFields(t *testing.T) {
	handler, _, _, _ := setupApplyOrderFixture(t)

	applied, err := handler.Handle(domain.Order{ID: "order-bare", ClientID: "c1"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, applied.Status)
	assert.Equal(t, "replica", applied.Origin)
	assert.False(t, applied.CreatedAt.IsZero())
}

func TestApplyOrderEventHandler_Handle_MissingID(t *testing.T) {
	handler, _, _, _ := setupApplyOrderFixture(t)

	_, err := handler.Handle(domain.Order{ClientID: "c1"}, nil, nil)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestApplyOrderEventHandler_Handle_DoesNotTouchStock(t *testing.T) {
	handler, _, _, _ := setupApplyOrderFixture(t)
	db := handler.db

	_, err := handler.Handle(
		remoteOrder(),
		&clientdomain.Client{ID: "c1", Name: "Acme Retail"},
		[]productdomain.Product{{ID: "p1", Name: "Widget", Active: true}},
	)
	require.NoError(t, err)

	// Balances travel in their own events; applying an order changes none
	var count int64
	require.NoError(t, db.Table("stock_entries").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
