package repository

import (
	"time"

	"leadmart/internal/models"

	"gorm.io/gorm"
)

type CashoutRepository struct {
	db *gorm.DB
}

func NewCashoutRepository(db *gorm.DB) *CashoutRepository {
	return &CashoutRepository{db: db}
}

func (r *CashoutRepository) Create(tx *gorm.DB, req *models.CashoutRequest) error {
	return tx.Create(req).Error
}

func (r *CashoutRepository) GetByID(id uint) (*models.CashoutRequest, error) {
	var req models.CashoutRequest
	if err := r.db.Preload("BankDetail").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *CashoutRepository) ListByVendor(vendorID uint, limit, offset int) ([]models.CashoutRequest, error) {
	var list []models.CashoutRequest
	err := r.db.Where("vendor_id = ?", vendorID).
		Preload("BankDetail").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// MarkProcessed finishes a PENDING request. Guarded on status so an
// approve and a reject racing on the same request cannot both win.
func (r *CashoutRepository) MarkProcessed(tx *gorm.DB, id uint, fromStatus, toStatus string, at time.Time) (bool, error) {
	res := tx.Model(&models.CashoutRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":       toStatus,
			"processed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
