package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/replication"
	"github.com/acmesa/branchsync/internal/stock/domain"
	"github.com/acmesa/branchsync/internal/stock/usecase/command"
	"github.com/acmesa/branchsync/internal/stock/usecase/query"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
	"github.com/acmesa/branchsync/pkg/locker"
)

// StockHandler handles HTTP requests for stock balances
type StockHandler struct {
	adjustHandler *command.AdjustStockHandler

	getStockHandler *query.GetStockHandler

	products productdomain.ProductRepository
	stock    domain.StockRepository
	sync     *replication.Synchronizer
	auth     *userhttp.AuthMiddleware
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	db *gorm.DB,
	locks *locker.KeyLocker,
	products productdomain.ProductRepository,
	stock domain.StockRepository,
	sync *replication.Synchronizer,
	auth *userhttp.AuthMiddleware,
	nodeName string,
) *StockHandler {
	return &StockHandler{
		adjustHandler:   command.NewAdjustStockHandler(db, locks, products, stock, nodeName),
		getStockHandler: query.NewGetStockHandler(db, products, stock),
		products:        products,
		stock:           stock,
		sync:            sync,
		auth:            auth,
	}
}

// AdjustStock handles PUT /stock/{product_id}
func (h *StockHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.adjustHandler.Handle(command.AdjustStockCommand{
		ProductID: vars["product_id"],
		Delta:     req.Delta,
		Reason:    req.Reason,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.broadcastEntry(entry)

	respondJSON(w, http.StatusOK, entry)
}

// GetStock handles GET /stock/{product_id}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entry, err := h.getStockHandler.Handle(query.GetStockQuery{ProductID: vars["product_id"]})
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// broadcastEntry sends a stock update to the peers with the product embedded,
// so a peer that has never seen the product can still merge the entry.
func (h *StockHandler) broadcastEntry(entry *domain.StockEntry) {
	var embedded *productdomain.Product
	if product, err := h.products.FindByID(entry.ProductID); err == nil {
		embedded = product
	}

	h.sync.Broadcast(replication.EventStockUpdate, replication.StockUpdatePayload{
		Entry:   *entry,
		Product: embedded,
	})
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/stock/{product_id}", h.auth.RequireAuth(h.GetStock)).Methods("GET")
	router.HandleFunc("/stock/{product_id}", h.auth.RequireAuth(h.AdjustStock)).Methods("PUT")
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
