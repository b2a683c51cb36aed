//go:build wireinject
// +build wireinject

package product

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/product/delivery/http"
	"github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/product/repository"
	"github.com/acmesa/branchsync/internal/replication"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
)

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideProductRepository,
)

// InitializeHTTPHandler initializes the product HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, sync *replication.Synchronizer, auth *userhttp.AuthMiddleware) (*http.ProductHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewProductHandler,
	)
	return nil, nil
}
