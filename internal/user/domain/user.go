package domain

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleAuditor  = "auditor"
)

// User represents a branch user. The password hash is replicated between
// nodes as-is and never leaves this struct through JSON.
type User struct {
	Username     string    `json:"username" gorm:"primaryKey"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOperator, RoleAuditor:
		return true
	}
	return false
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Upsert(user *User) error
	FindByUsername(username string) (*User, error)
	FindAll() ([]User, error)
	Count() (int64, error)

	WithTx(tx *gorm.DB) UserRepository
}
