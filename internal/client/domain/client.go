package domain

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer shared by every branch. Clients are
// upsert-only: nodes never delete them, and replicated payloads are
// authoritative (last writer wins).
type Client struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Document  *string   `json:"document"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Client) TableName() string {
	return "clients"
}

// ClientRepository defines the contract for client data access
type ClientRepository interface {
	Upsert(client *Client) error
	FindByID(id string) (*Client, error)
	FindAll() ([]Client, error)
	Count() (int64, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) ClientRepository
}
