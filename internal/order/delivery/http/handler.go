package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/acmesa/branchsync/internal/apperrors"
	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	"github.com/acmesa/branchsync/internal/order/domain"
	"github.com/acmesa/branchsync/internal/order/usecase/command"
	"github.com/acmesa/branchsync/internal/order/usecase/query"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/replication"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	userhttp "github.com/acmesa/branchsync/internal/user/delivery/http"
	"github.com/acmesa/branchsync/pkg/locker"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	registerHandler *command.RegisterOrderHandler

	getOrderHandler *query.GetOrderHandler

	clients clientdomain.ClientRepository
	sync    *replication.Synchronizer
	auth    *userhttp.AuthMiddleware
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	db *gorm.DB,
	locks *locker.KeyLocker,
	clients clientdomain.ClientRepository,
	products productdomain.ProductRepository,
	stock stockdomain.StockRepository,
	orders domain.OrderRepository,
	sync *replication.Synchronizer,
	auth *userhttp.AuthMiddleware,
	nodeName string,
) *OrderHandler {
	return &OrderHandler{
		registerHandler: command.NewRegisterOrderHandler(db, locks, clients, products, stock, orders, nodeName),
		getOrderHandler: query.NewGetOrderHandler(orders),
		clients:         clients,
		sync:            sync,
		auth:            auth,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID  string `json:"order_id"`
		ClientID string `json:"client_id"`
		Items    []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]command.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, command.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.registerHandler.Handle(command.RegisterOrderCommand{
		OrderID:  req.OrderID,
		ClientID: req.ClientID,
		Items:    items,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.broadcastOrder(result)

	respondJSON(w, http.StatusCreated, result.Order)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	order, err := h.getOrderHandler.Handle(query.GetOrderQuery{ID: vars["id"]})
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// broadcastOrder publishes the committed order and the stock entries it
// touched. Each event is self-contained: the order event embeds the client
// and products, each stock event embeds its product.
func (h *OrderHandler) broadcastOrder(result *command.RegisterOrderResult) {
	var embeddedClient *clientdomain.Client
	if client, err := h.clients.FindByID(result.Order.ClientID); err == nil {
		embeddedClient = client
	}

	products := make([]productdomain.Product, 0, len(result.Products))
	for _, product := range result.Products {
		products = append(products, product)
	}

	h.sync.Broadcast(replication.EventOrderCreated, replication.OrderCreatedPayload{
		Order:    *result.Order,
		Client:   embeddedClient,
		Products: products,
	})

	for _, entry := range result.Entries {
		var embedded *productdomain.Product
		if product, ok := result.Products[entry.ProductID]; ok {
			p := product
			embedded = &p
		}
		h.sync.Broadcast(replication.EventStockUpdate, replication.StockUpdatePayload{
			Entry:   entry,
			Product: embedded,
		})
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/orders", h.auth.RequireAuth(h.CreateOrder)).Methods("POST")
	router.HandleFunc("/orders/{id}", h.auth.RequireAuth(h.GetOrder)).Methods("GET")
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
