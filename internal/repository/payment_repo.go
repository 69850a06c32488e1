package repository

import (
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByProviderRef(ref string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("provider_ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCompleted transitions PENDING -> COMPLETED. Guarded on status so
// a webhook redelivery is a no-op (returns false). Takes the caller's
// transaction so the flip commits together with its downstream effect.
func (r *PaymentRepository) MarkCompleted(tx *gorm.DB, id uint, at time.Time) (bool, error) {
	res := tx.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepository) MarkFailed(id uint) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusPending).
		Update("status", domain.PaymentStatusFailed).Error
}

func (r *PaymentRepository) MarkExpired(id uint) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusPending).
		Update("status", domain.PaymentStatusExpired).Error
}
