package repository

import (
	"github.com/acmesa/branchsync/internal/client/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Client{})
}

func (r *GormClientRepository) WithTx(tx *gorm.DB) domain.ClientRepository {
	return &GormClientRepository{db: tx}
}

// Upsert inserts the client or, on conflict, replaces everything except the
// original created_at.
func (r *GormClientRepository) Upsert(client *domain.Client) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "document", "email", "updated_at"}),
	}).Create(client).Error
}

func (r *GormClientRepository) FindByID(id string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *GormClientRepository) FindAll() ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.Order("name").Find(&clients).Error
	return clients, err
}

func (r *GormClientRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Client{}).Count(&count).Error
	return count, err
}
