package query

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/order/domain"
)

// GetOrderQuery represents the query to get an order by id
type GetOrderQuery struct {
	ID string
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	repo domain.OrderRepository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(repo domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(q GetOrderQuery) (*domain.Order, error) {
	order, err := h.repo.FindByID(q.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order %s not found", q.ID)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}
