package repository

import (
	"time"

	"leadmart/internal/models"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Exists(vendorID, leadID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.LeadPurchase{}).
		Where("vendor_id = ? AND lead_id = ?", vendorID, leadID).
		Count(&count).Error
	return count > 0, err
}

func (r *PurchaseRepository) ListByVendor(vendorID uint, limit, offset int) ([]models.LeadPurchase, int64, error) {
	base := r.db.Model(&models.LeadPurchase{}).Where("vendor_id = ?", vendorID)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var purchases []models.LeadPurchase
	err := base.Preload("Lead").
		Order("purchase_date DESC").
		Limit(limit).Offset(offset).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *PurchaseRepository) CountSince(vendorID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.LeadPurchase{}).
		Where("vendor_id = ? AND purchase_date >= ?", vendorID, since).
		Count(&count).Error
	return count, err
}

func (r *PurchaseRepository) TotalSpendSince(vendorID uint, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.LeadPurchase{}).
		Where("vendor_id = ? AND purchase_date >= ?", vendorID, since).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
