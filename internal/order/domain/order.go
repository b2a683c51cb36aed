package domain

import (
	"time"

	"gorm.io/gorm"
)

// StatusConfirmed is the only order status in use
const StatusConfirmed = "confirmed"

// Order is write-once on the node that registers it, but replayable as an
// idempotent upsert on nodes applying the replicated event. Client and
// product names are denormalized into the wire shape so a receiving node
// never needs a lookup round trip.
type Order struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	ClientID   string      `json:"client_id" gorm:"not null;index"`
	ClientName string      `json:"client_name" gorm:"-"`
	Status     string      `json:"status" gorm:"not null"`
	CreatedAt  time.Time   `json:"created_at"`
	Origin     string      `json:"origin" gorm:"not null"`
	Items      []OrderItem `json:"items" gorm:"-"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	OrderID     string `json:"-" gorm:"not null;index"`
	ProductID   string `json:"product_id" gorm:"not null"`
	Quantity    int    `json:"quantity" gorm:"not null"`
	ProductName string `json:"product_name" gorm:"-"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	// Upsert writes the order header and fully replaces its item rows,
	// making replays of the same order id idempotent.
	Upsert(order *Order) error
	FindByID(id string) (*Order, error)
	Count() (int64, error)

	WithTx(tx *gorm.DB) OrderRepository
}
