package repository

import (
	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	"github.com/acmesa/branchsync/internal/order/domain"
	productdomain "github.com/acmesa/branchsync/internal/product/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.OrderItem{})
}

func (r *GormOrderRepository) WithTx(tx *gorm.DB) domain.OrderRepository {
	return &GormOrderRepository{db: tx}
}

// Upsert writes the header and replaces the item rows. Delete-then-reinsert
// keeps replays of the same order id idempotent.
func (r *GormOrderRepository) Upsert(order *domain.Order) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"client_id", "status", "created_at", "origin"}),
	}).Create(order).Error
	if err != nil {
		return err
	}

	if err := r.db.Where("order_id = ?", order.ID).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		item := domain.OrderItem{
			OrderID:   order.ID,
			ProductID: order.Items[i].ProductID,
			Quantity:  order.Items[i].Quantity,
		}
		if err := r.db.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads the order with its items and denormalized names
func (r *GormOrderRepository) FindByID(id string) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Where("order_id = ?", id).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	var client clientdomain.Client
	if err := r.db.First(&client, "id = ?", order.ClientID).Error; err == nil {
		order.ClientName = client.Name
	}

	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	names := make(map[string]string, len(productIDs))
	if len(productIDs) > 0 {
		var products []productdomain.Product
		if err := r.db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return nil, err
		}
		for _, product := range products {
			names[product.ID] = product.Name
		}
	}
	for i := range items {
		items[i].ProductName = names[items[i].ProductID]
	}

	order.Items = items
	return &order, nil
}

func (r *GormOrderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Order{}).Count(&count).Error
	return count, err
}
