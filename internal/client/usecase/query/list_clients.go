package query

import (
	"fmt"

	"github.com/acmesa/branchsync/internal/client/domain"
)

// ListClientsHandler handles list clients query
type ListClientsHandler struct {
	repo domain.ClientRepository
}

// NewListClientsHandler creates a new list clients handler
func NewListClientsHandler(repo domain.ClientRepository) *ListClientsHandler {
	return &ListClientsHandler{repo: repo}
}

// Handle returns all clients ordered by name
func (h *ListClientsHandler) Handle() ([]domain.Client, error) {
	clients, err := h.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
