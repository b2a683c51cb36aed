package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/product/domain"
)

// UpsertProductCommand represents the command to create or update a product
type UpsertProductCommand struct {
	ID          string
	Name        string
	Description *string
	Active      bool
}

// UpsertProductHandler handles product upsert command
type UpsertProductHandler struct {
	repo domain.ProductRepository
}

// NewUpsertProductHandler creates a new upsert product handler
func NewUpsertProductHandler(repo domain.ProductRepository) *UpsertProductHandler {
	return &UpsertProductHandler{repo: repo}
}

// Handle executes the upsert product command
func (h *UpsertProductHandler) Handle(cmd UpsertProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, apperrors.NewValidationError("product id is required")
	}
	if len(cmd.Name) < 2 {
		return nil, apperrors.NewValidationError("product name must have at least 2 characters")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          cmd.ID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Active:      cmd.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Upsert(product); err != nil {
		return nil, fmt.Errorf("failed to upsert product: %w", err)
	}

	stored, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product %s not found", cmd.ID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return stored, nil
}
