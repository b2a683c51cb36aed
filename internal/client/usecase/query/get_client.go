package query

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/client/domain"
)

// GetClientQuery represents the query to get a client by id
type GetClientQuery struct {
	ID string
}

// GetClientHandler handles get client query
type GetClientHandler struct {
	repo domain.ClientRepository
}

// NewGetClientHandler creates a new get client handler
func NewGetClientHandler(repo domain.ClientRepository) *GetClientHandler {
	return &GetClientHandler{repo: repo}
}

// Handle executes the get client query
func (h *GetClientHandler) Handle(q GetClientQuery) (*domain.Client, error) {
	client, err := h.repo.FindByID(q.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("client %s not found", q.ID)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}
