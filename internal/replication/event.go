package replication

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	orderdomain "github.com/acmesa/branchsync/internal/order/domain"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	userdomain "github.com/acmesa/branchsync/internal/user/domain"
)

// Event types
const (
	EventClientUpsert  = "client_upsert"
	EventProductUpsert = "product_upsert"
	EventUserUpsert    = "user_upsert"
	EventOrderCreated  = "order_created"
	EventStockUpdate   = "stock_update"
)

// Event is the wire unit of replication: one committed local state change,
// uniquely identified, broadcast to every peer. The payload is decoded into
// its typed shape exactly once, at the receiving boundary.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

// ClientUpsertPayload carries a replicated client
type ClientUpsertPayload struct {
	Client clientdomain.Client `json:"client"`
}

// ProductUpsertPayload carries a replicated product
type ProductUpsertPayload struct {
	Product productdomain.Product `json:"product"`
}

// UserUpsertPayload carries a replicated user. The hash travels alongside
// the user because the user's own JSON shape never exposes it.
type UserUpsertPayload struct {
	User         userdomain.User `json:"user"`
	PasswordHash string          `json:"password_hash"`
}

// StockUpdatePayload carries a replicated stock entry with its product, so
// the receiver can install the product before merging the entry.
type StockUpdatePayload struct {
	Entry   stockdomain.StockEntry `json:"entry"`
	Product *productdomain.Product `json:"product"`
}

// OrderCreatedPayload carries a fully denormalized order: the receiver never
// needs an extra round trip to resolve the client or product names.
type OrderCreatedPayload struct {
	Order    orderdomain.Order       `json:"order"`
	Client   *clientdomain.Client    `json:"client"`
	Products []productdomain.Product `json:"products"`
}

// NewEvent builds an envelope around a typed payload
func NewEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}
