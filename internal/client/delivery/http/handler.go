package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/client/domain"
	"github.com/acmesa/branchsync/internal/client/usecase/command"
	"github.com/acmesa/branchsync/internal/client/usecase/query"
	"github.com/acmesa/branchsync/internal/replication"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
)

// ClientHandler handles HTTP requests for clients
type ClientHandler struct {
	upsertHandler *command.UpsertClientHandler

	getClientHandler *query.GetClientHandler
	listHandler      *query.ListClientsHandler

	sync *replication.Synchronizer
	auth *userhttp.AuthMiddleware
}

// NewClientHandler creates a new client handler
func NewClientHandler(repo domain.ClientRepository, sync *replication.Synchronizer, auth *userhttp.AuthMiddleware) *ClientHandler {
	return &ClientHandler{
		upsertHandler:    command.NewUpsertClientHandler(repo),
		getClientHandler: query.NewGetClientHandler(repo),
		listHandler:      query.NewListClientsHandler(repo),
		sync:             sync,
		auth:             auth,
	}
}

// CreateClient handles POST /clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Document *string `json:"document"`
		Email    *string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	client, err := h.upsertHandler.Handle(command.UpsertClientCommand{
		ID:       req.ID,
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.sync.Broadcast(replication.EventClientUpsert, replication.ClientUpsertPayload{Client: *client})

	respondJSON(w, http.StatusCreated, client)
}

// GetClient handles GET /clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	client, err := h.getClientHandler.Handle(query.GetClientQuery{ID: vars["id"]})
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// ListClients handles GET /clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.listHandler.Handle()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, clients)
}

// RegisterRoutes registers all client routes
func (h *ClientHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/clients", h.auth.RequireAuth(h.CreateClient)).Methods("POST")
	router.HandleFunc("/clients", h.auth.RequireAuth(h.ListClients)).Methods("GET")
	router.HandleFunc("/clients/{id}", h.auth.RequireAuth(h.GetClient)).Methods("GET")
}

func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFoundError(err):
		respondError(w, http.StatusNotFound, err.Error())
	case apperrors.IsConflictError(err):
		respondError(w, http.StatusConflict, err.Error())
	case apperrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
