package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/product/domain"
)

// ApplyProductEventHandler applies a replicated product payload, last writer
// wins.
type ApplyProductEventHandler struct {
	repo domain.ProductRepository
}

// NewApplyProductEventHandler creates a new apply product event handler
func NewApplyProductEventHandler(repo domain.ProductRepository) *ApplyProductEventHandler {
	return &ApplyProductEventHandler{repo: repo}
}

// Handle upserts the replicated product
func (h *ApplyProductEventHandler) Handle(payload domain.Product) (*domain.Product, error) {
	if payload.ID == "" {
		return nil, apperrors.NewValidationError("product payload requires an id")
	}

	now := time.Now().UTC()
	if payload.CreatedAt.IsZero() {
		payload.CreatedAt = now
	}
	if payload.UpdatedAt.IsZero() {
		payload.UpdatedAt = now
	}

	if err := h.repo.Upsert(&payload); err != nil {
		return nil, fmt.Errorf("failed to apply product event: %w", err)
	}

	stored, err := h.repo.FindByID(payload.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product %s not found", payload.ID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return stored, nil
}
