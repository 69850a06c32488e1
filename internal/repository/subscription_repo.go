package repository

import (
	"leadmart/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ListByVendorID returns the vendor's subscriptions newest first. The
// store is not trusted to enforce a single ACTIVE row; callers filter.
func (r *SubscriptionRepository) ListByVendorID(vendorID uint) ([]models.VendorSubscription, error) {
	var subs []models.VendorSubscription
	err := r.db.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) GetPlan(planID uint) (*models.Plan, error) {
	var p models.Plan
	if err := r.db.First(&p, planID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SubscriptionRepository) ListPlans() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("is_active = ?", true).Order("price_cents ASC").Find(&plans).Error
	return plans, err
}

func (r *SubscriptionRepository) Create(sub *models.VendorSubscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.VendorSubscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}
