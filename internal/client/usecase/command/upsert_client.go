package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/client/domain"
)

// UpsertClientCommand represents the command to create or update a client
type UpsertClientCommand struct {
	ID       string
	Name     string
	Document *string
	Email    *string
}

// UpsertClientHandler handles client upsert command
type UpsertClientHandler struct {
	repo domain.ClientRepository
}

// NewUpsertClientHandler creates a new upsert client handler
func NewUpsertClientHandler(repo domain.ClientRepository) *UpsertClientHandler {
	return &UpsertClientHandler{repo: repo}
}

// Handle executes the upsert client command
func (h *UpsertClientHandler) Handle(cmd UpsertClientCommand) (*domain.Client, error) {
	if cmd.ID == "" {
		return nil, apperrors.NewValidationError("client id is required")
	}
	if len(cmd.Name) < 2 {
		return nil, apperrors.NewValidationError("client name must have at least 2 characters")
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        cmd.ID,
		Name:      cmd.Name,
		Document:  cmd.Document,
		Email:     cmd.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Upsert(client); err != nil {
		return nil, fmt.Errorf("failed to upsert client: %w", err)
	}

	// Re-read so an update returns the stored created_at, not ours.
	stored, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("client %s not found", cmd.ID)
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return stored, nil
}
