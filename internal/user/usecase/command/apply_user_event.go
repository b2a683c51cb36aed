package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/user/domain"
)

// ApplyUserEventHandler applies a replicated user payload. The hash arrives
// already bcrypt-ed from the origin node and is stored verbatim.
type ApplyUserEventHandler struct {
	repo domain.UserRepository
}

// NewApplyUserEventHandler creates a new apply user event handler
func NewApplyUserEventHandler(repo domain.UserRepository) *ApplyUserEventHandler {
	return &ApplyUserEventHandler{repo: repo}
}

// Handle upserts the replicated user
func (h *ApplyUserEventHandler) Handle(payload domain.User, passwordHash string) (*domain.User, error) {
	if payload.Username == "" {
		return nil, apperrors.NewValidationError("user payload requires a username")
	}
	if passwordHash == "" {
		return nil, apperrors.NewValidationError("user payload requires a password hash")
	}

	role := payload.Role
	if role == "" {
		role = domain.RoleOperator
	}

	user := &domain.User{
		Username:     payload.Username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    payload.CreatedAt,
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if err := h.repo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to apply user event: %w", err)
	}

	stored, err := h.repo.FindByUsername(payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user %s not found", payload.Username)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return stored, nil
}
