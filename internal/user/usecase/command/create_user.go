package command

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/user/domain"
	"github.com/acmesa/branchsync/pkg/auth"
)

// CreateUserCommand represents the command to create or replace a user
type CreateUserCommand struct {
	Username string
	Password string
	Role     string // defaults to operator
}

// CreateUserHandler handles user creation command
type CreateUserHandler struct {
	repo domain.UserRepository
}

// NewCreateUserHandler creates a new create user handler
func NewCreateUserHandler(repo domain.UserRepository) *CreateUserHandler {
	return &CreateUserHandler{repo: repo}
}

// Handle executes the create user command. The returned user carries the
// bcrypt hash so the caller can build a replication payload; it is never
// serialized to API responses.
func (h *CreateUserHandler) Handle(cmd CreateUserCommand) (*domain.User, error) {
	if len(cmd.Username) < 3 {
		return nil, apperrors.NewValidationError("username must have at least 3 characters")
	}
	if len(cmd.Password) < 6 {
		return nil, apperrors.NewValidationError("password must have at least 6 characters")
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleOperator
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("invalid role %q", role)
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.repo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := h.repo.FindByUsername(cmd.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user %s not found", cmd.Username)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return stored, nil
}
