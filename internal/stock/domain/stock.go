package domain

import (
	"time"

	"gorm.io/gorm"
)

// OriginBootstrap marks entries created lazily on first access
const OriginBootstrap = "bootstrap"

// StockEntry tracks the balance of one product on this node. Version grows
// by exactly one per accepted mutation and is the primary conflict key
// between nodes; UpdatedAt breaks ties at equal versions.
//
// UpdatedAt is a fixed-width UTC timestamp string and equal-version conflicts
// compare it lexically, which matches chronological order only while every
// node emits the same-width format in UTC. The wire format depends on this,
// so it stays a string.
type StockEntry struct {
	ProductID string  `json:"product_id" gorm:"primaryKey"`
	Balance   int     `json:"balance" gorm:"not null;default:0"`
	Version   int64   `json:"version" gorm:"not null;default:0"`
	UpdatedAt string  `json:"updated_at" gorm:"not null"`
	Origin    string  `json:"origin" gorm:"not null"`
	Reference *string `json:"reference"`
}

// TableName specifies the table name
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewerThan reports whether the entry wins a conflict against other:
// strictly greater version, or equal version with a strictly greater
// timestamp.
func (e *StockEntry) NewerThan(other *StockEntry) bool {
	if e.Version != other.Version {
		return e.Version > other.Version
	}
	return e.UpdatedAt != "" && e.UpdatedAt > other.UpdatedAt
}

// stockTimeLayout keeps the fractional second at a fixed six digits.
// time.RFC3339Nano trims trailing zeros, which breaks the lexical ordering
// the tiebreak relies on ("...00.5Z" > "...00.51Z" as strings).
const stockTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// NowUTC formats the current time the way stock timestamps travel on the wire
func NowUTC() string {
	return time.Now().UTC().Format(stockTimeLayout)
}

// StockRepository defines the contract for stock data access
type StockRepository interface {
	// FindOrCreate returns the entry for the product, creating it with
	// balance 0 and version 0 on first access.
	FindOrCreate(productID string) (*StockEntry, error)
	Save(entry *StockEntry) error
	FindByProductID(productID string) (*StockEntry, error)
	FindAll() ([]StockEntry, error)

	WithTx(tx *gorm.DB) StockRepository
}
