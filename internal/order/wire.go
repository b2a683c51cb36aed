//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	clientrepository "github.com/acmesa/branchsync/internal/client/repository"
	"github.com/acmesa/branchsync/internal/order/delivery/http"
	"github.com/acmesa/branchsync/internal/order/domain"
	"github.com/acmesa/branchsync/internal/order/repository"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	productrepository "github.com/acmesa/branchsync/internal/product/repository"
	"github.com/acmesa/branchsync/internal/replication"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	stockrepository "github.com/acmesa/branchsync/internal/stock/repository"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
	"github.com/acmesa/branchsync/pkg/locker"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// ProvideClientRepository provides the client repository orders resolve
// their client through
func ProvideClientRepository(db *gorm.DB) clientdomain.ClientRepository {
	return clientrepository.NewGormClientRepository(db)
}

// ProvideProductRepository provides the product repository order items
// validate against
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepository.NewGormProductRepository(db)
}

// ProvideStockRepository provides the stock repository orders debit through
func ProvideStockRepository(db *gorm.DB) stockdomain.StockRepository {
	return stockrepository.NewGormStockRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideClientRepository,
	ProvideProductRepository,
	ProvideStockRepository,
)

// InitializeHTTPHandler initializes the order HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	locks *locker.KeyLocker,
	sync *replication.Synchronizer,
	auth *userhttp.AuthMiddleware,
	nodeName string,
) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewOrderHandler,
	)
	return nil, nil
}
