package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/acmesa/branchsync/internal/status/usecase/query"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
)

// StatusHandler handles HTTP requests for the node status snapshot
type StatusHandler struct {
	getStatusHandler *query.GetStatusHandler
	auth             *userhttp.AuthMiddleware
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(getStatusHandler *query.GetStatusHandler, auth *userhttp.AuthMiddleware) *StatusHandler {
	return &StatusHandler{getStatusHandler: getStatusHandler, auth: auth}
}

// GetStatus handles GET /status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.getStatusHandler.Handle()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// RegisterRoutes registers the status route
func (h *StatusHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/status", h.auth.RequireAuth(h.GetStatus)).Methods("GET")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
