package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/replication"
	"github.com/acmesa/branchsync/pkg/logger"
)

// ReplicaHandler is where peers hand their events to this node
type ReplicaHandler struct {
	applier *replication.Applier
	token   string
}

// NewReplicaHandler creates a new replica ingestion handler
func NewReplicaHandler(applier *replication.Applier, token string) *ReplicaHandler {
	return &ReplicaHandler{applier: applier, token: token}
}

// ApplyEvent handles POST /replica/event
func (h *ReplicaHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(replication.ReplicaTokenHeader) != h.token {
		respondError(w, http.StatusForbidden, "Invalid replica token")
		return
	}

	var event replication.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event envelope")
		return
	}

	result, err := h.applier.Apply(event)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("Rejected replication event")
		respondDomainError(w, err)
		return
	}

	logger.Logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Msg("Applied replication event")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"result": result,
	})
}

// RegisterRoutes registers the ingestion endpoint
func (h *ReplicaHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/replica/event", h.ApplyEvent).Methods("POST")
}

func respondDomainError(w http.ResponseWriter, err error) {
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
