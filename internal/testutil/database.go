package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	orderdomain "github.com/acmesa/branchsync/internal/order/domain"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	userdomain "github.com/acmesa/branchsync/internal/user/domain"
)

// SetupTestDB opens a private in-memory database migrated with every node
// entity. A single connection keeps the shared cache alive for the whole
// test and serializes sqlite access under concurrent tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&clientdomain.Client{},
		&productdomain.Product{},
		&userdomain.User{},
		&stockdomain.StockEntry{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
