package repository

import (
	"leadmart/internal/models"

	"gorm.io/gorm"
)

type BankDetailRepository struct {
	db *gorm.DB
}

func NewBankDetailRepository(db *gorm.DB) *BankDetailRepository {
	return &BankDetailRepository{db: db}
}

func (r *BankDetailRepository) Create(b *models.BankDetail) error {
	return r.db.Create(b).Error
}

func (r *BankDetailRepository) GetByID(id uint) (*models.BankDetail, error) {
	var b models.BankDetail
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BankDetailRepository) ListByVendor(vendorID uint) ([]models.BankDetail, error) {
	var list []models.BankDetail
	err := r.db.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&list).Error
	return list, err
}
