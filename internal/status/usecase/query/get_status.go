package query

import (
	"fmt"

	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	orderdomain "github.com/acmesa/branchsync/internal/order/domain"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"github.com/acmesa/branchsync/internal/replication"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	userdomain "github.com/acmesa/branchsync/internal/user/domain"
)

// StockSnapshot is one product's balance as seen by this node
type StockSnapshot struct {
	Balance int    `json:"balance"`
	Version int64  `json:"version"`
	Origin  string `json:"origin"`
}

// NodeStatus is the consistency snapshot exposed for cross-node comparison
type NodeStatus struct {
	Node        string                   `json:"node"`
	Clients     int64                    `json:"clients"`
	Products    int64                    `json:"products"`
	Users       int64                    `json:"users"`
	Orders      int64                    `json:"orders"`
	Stock       map[string]StockSnapshot `json:"stock"`
	Replication replication.QueueStatus  `json:"replication"`
}

// GetStatusHandler assembles the node status from every store
type GetStatusHandler struct {
	nodeName string
	clients  clientdomain.ClientRepository
	products productdomain.ProductRepository
	users    userdomain.UserRepository
	orders   orderdomain.OrderRepository
	stock    stockdomain.StockRepository
	sync     *replication.Synchronizer
}

// NewGetStatusHandler creates a new get status handler
func NewGetStatusHandler(
	nodeName string,
	clients clientdomain.ClientRepository,
	products productdomain.ProductRepository,
	users userdomain.UserRepository,
	orders orderdomain.OrderRepository,
	stock stockdomain.StockRepository,
	sync *replication.Synchronizer,
) *GetStatusHandler {
	return &GetStatusHandler{
		nodeName: nodeName,
		clients:  clients,
		products: products,
		users:    users,
		orders:   orders,
		stock:    stock,
		sync:     sync,
	}
}

// Handle executes the get status query
func (h *GetStatusHandler) Handle() (*NodeStatus, error) {
	clients, err := h.clients.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	products, err := h.products.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	users, err := h.users.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	orders, err := h.orders.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	entries, err := h.stock.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load stock entries: %w", err)
	}
	snapshot := make(map[string]StockSnapshot, len(entries))
	for _, entry := range entries {
		snapshot[entry.ProductID] = StockSnapshot{
			Balance: entry.Balance,
			Version: entry.Version,
			Origin:  entry.Origin,
		}
	}

	return &NodeStatus{
		Node:        h.nodeName,
		Clients:     clients,
		Products:    products,
		Users:       users,
		Orders:      orders,
		Stock:       snapshot,
		Replication: h.sync.Status(),
	}, nil
}
