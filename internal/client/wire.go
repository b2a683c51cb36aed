//go:build wireinject
// +build wireinject

package client

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/client/delivery/http"
	"github.com/acmesa/branchsync/internal/client/domain"
	"github.com/acmesa/branchsync/internal/client/repository"
	"github.com/acmesa/branchsync/internal/replication"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
)

// ProvideClientRepository provides the client repository
func ProvideClientRepository(db *gorm.DB) domain.ClientRepository {
	return repository.NewGormClientRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideClientRepository,
)

// InitializeHTTPHandler initializes the client HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, sync *replication.Synchronizer, auth *userhttp.AuthMiddleware) (*http.ClientHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewClientHandler,
	)
	return nil, nil
}
