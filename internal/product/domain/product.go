package domain

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog product. An inactive product rejects new
// stock movement and cannot participate in orders.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Upsert(product *Product) error
	FindByID(id string) (*Product, error)
	FindAll() ([]Product, error)
	Count() (int64, error)

	WithTx(tx *gorm.DB) ProductRepository
}
