package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/replication"
	"github.com/acmesa/branchsync/internal/user/domain"
	"github.com/acmesa/branchsync/internal/user/usecase/command"
	"github.com/acmesa/branchsync/internal/user/usecase/query"
)

// UserHandler handles HTTP requests for accounts
type UserHandler struct {
	createHandler *command.CreateUserHandler
	loginHandler  *command.LoginUserHandler

	getUserHandler *query.GetUserHandler

	repo domain.UserRepository
	sync *replication.Synchronizer
	auth *AuthMiddleware
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo domain.UserRepository, sync *replication.Synchronizer) *UserHandler {
	return &UserHandler{
		createHandler:  command.NewCreateUserHandler(repo),
		loginHandler:   command.NewLoginUserHandler(repo),
		getUserHandler: query.NewGetUserHandler(repo),
		repo:           repo,
		sync:           sync,
		auth:           NewAuthMiddleware(repo),
	}
}

// Middleware exposes the auth middleware so other handlers can guard routes
func (h *UserHandler) Middleware() *AuthMiddleware {
	return h.auth
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.loginHandler.Handle(command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// CreateUser handles POST /users (admin only). The account is stored locally
// and broadcast to the peers with its password hash.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.createHandler.Handle(command.CreateUserCommand{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.sync.Broadcast(replication.EventUserUpsert, replication.UserUpsertPayload{
		User:         *user,
		PasswordHash: user.PasswordHash,
	})

	respondJSON(w, http.StatusCreated, user)
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := r.Context().Value(UsernameKey).(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Username not found in context")
		return
	}

	user, err := h.getUserHandler.Handle(query.GetUserQuery{Username: username})
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// RegisterRoutes registers all account routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/users", h.auth.RequireAdmin(h.CreateUser)).Methods("POST")
	router.HandleFunc("/users/me", h.auth.RequireAuth(h.Me)).Methods("GET")
}

// respondAppError maps domain errors onto HTTP status codes
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFoundError(err):
		respondError(w, http.StatusNotFound, err.Error())
	case apperrors.IsConflictError(err):
		respondError(w, http.StatusConflict, err.Error())
	case apperrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsUnauthorizedError(err):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
