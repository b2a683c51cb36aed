package query

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/user/domain"
)

// GetUserQuery represents the query to get a user by username
type GetUserQuery struct {
	Username string
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(q GetUserQuery) (*domain.User, error) {
	user, err := h.repo.FindByUsername(q.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user %s not found", q.Username)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
