package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/acmesa/branchsync/internal/apperrors"
	"github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/product/usecase/command"
	"github.com/acmesa/branchsync/internal/product/usecase/query"
	"github.com/acmesa/branchsync/internal/replication"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	upsertHandler *command.UpsertProductHandler

	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler

	sync *replication.Synchronizer
	auth *userhttp.AuthMiddleware
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo domain.ProductRepository, sync *replication.Synchronizer, auth *userhttp.AuthMiddleware) *ProductHandler {
	return &ProductHandler{
		upsertHandler:     command.NewUpsertProductHandler(repo),
		getProductHandler: query.NewGetProductHandler(repo),
		listHandler:       query.NewListProductsHandler(repo),
		sync:              sync,
		auth:              auth,
	}
}

// CreateProduct handles POST /products (admin only)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Active      *bool   `json:"active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product, err := h.upsertHandler.Handle(command.UpsertProductCommand{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Active:      active,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.sync.Broadcast(replication.EventProductUpsert, replication.ProductUpsertPayload{Product: *product})

	respondJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	product, err := h.getProductHandler.Handle(query.GetProductQuery{ID: vars["id"]})
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listHandler.Handle()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/products", h.auth.RequireAdmin(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/products", h.auth.RequireAuth(h.ListProducts)).Methods("GET")
	router.HandleFunc("/products/{id}", h.auth.RequireAuth(h.GetProduct)).Methods("GET")
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
