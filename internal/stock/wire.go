//go:build wireinject
// +build wireinject

package stock

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	productrepository "github.com/acmesa/branchsync/internal/product/repository"
	"github.com/acmesa/branchsync/internal/replication"
	"github.com/acmesa/branchsync/internal/stock/delivery/http"
	"github.com/acmesa/branchsync/internal/stock/domain"
	"github.com/acmesa/branchsync/internal/stock/repository"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
	"github.com/acmesa/branchsync/pkg/locker"
)

// ProvideStockRepository provides the stock repository
func ProvideStockRepository(db *gorm.DB) domain.StockRepository {
	return repository.NewGormStockRepository(db)
}

// ProvideProductRepository provides the product repository the stock
// handlers validate against
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepository.NewGormProductRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideStockRepository,
	ProvideProductRepository,
)

// InitializeHTTPHandler initializes the stock HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	locks *locker.KeyLocker,
	sync *replication.Synchronizer,
	auth *userhttp.AuthMiddleware,
	nodeName string,
) (*http.StockHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewStockHandler,
	)
	return nil, nil
}
