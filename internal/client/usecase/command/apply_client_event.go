package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/client/domain"
)

// ApplyClientEventHandler applies a replicated client payload. The payload is
// authoritative: no version arbitration, last writer wins.
type ApplyClientEventHandler struct {
	repo domain.ClientRepository
}

// NewApplyClientEventHandler creates a new apply client event handler
func NewApplyClientEventHandler(repo domain.ClientRepository) *ApplyClientEventHandler {
	return &ApplyClientEventHandler{repo: repo}
}

// Handle upserts the replicated client
func (h *ApplyClientEventHandler) Handle(payload domain.Client) (*domain.Client, error) {
	if payload.ID == "" {
		return nil, apperrors.NewValidationError("client payload requires an id")
	}

	now := time.Now().UTC()
	if payload.CreatedAt.IsZero() {
		payload.CreatedAt = now
	}
	if payload.UpdatedAt.IsZero() {
		payload.UpdatedAt = now
	}

	if err := h.repo.Upsert(&payload); err != nil {
		return nil, fmt.Errorf("failed to apply client event: %w", err)
	}

	stored, err := h.repo.FindByID(payload.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("client %s not found", payload.ID)
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return stored, nil
}
