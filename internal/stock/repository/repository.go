package repository

import (
	"errors"

	"github.com/acmesa/branchsync/internal/stock/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.StockEntry{})
}

func (r *GormStockRepository) WithTx(tx *gorm.DB) domain.StockRepository {
	return &GormStockRepository{db: tx}
}

func (r *GormStockRepository) FindOrCreate(productID string) (*domain.StockEntry, error) {
	var entry domain.StockEntry
	err := r.db.First(&entry, "product_id = ?", productID).Error
	if err == nil {
		return &entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry = domain.StockEntry{
		ProductID: productID,
		Balance:   0,
		Version:   0,
		UpdatedAt: domain.NowUTC(),
		Origin:    domain.OriginBootstrap,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Save upserts the whole entry keyed by product id
func (r *GormStockRepository) Save(entry *domain.StockEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "version", "updated_at", "origin", "reference"}),
	}).Create(entry).Error
}

func (r *GormStockRepository) FindByProductID(productID string) (*domain.StockEntry, error) {
	var entry domain.StockEntry
	err := r.db.First(&entry, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormStockRepository) FindAll() ([]domain.StockEntry, error) {
	var entries []domain.StockEntry
	err := r.db.Order("product_id").Find(&entries).Error
	return entries, err
}
