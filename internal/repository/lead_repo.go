package repository

import (
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"

	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

func (r *LeadRepository) GetByID(id uint) (*models.Lead, error) {
	var l models.Lead
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Lead{}).Where("id = ?", id).Update("status", status).Error
}

// LeadQuery describes the available-leads search.
type LeadQuery struct {
	Since      time.Time
	BudgetMin  int64
	BudgetMax  int64
	Search     string
	Categories []string
	States     []string
	Offset     int
	Limit      int
}

// Available returns AVAILABLE leads created after q.Since matching the
// optional filters, plus the total count for pagination.
func (r *LeadRepository) Available(q LeadQuery) ([]models.Lead, int64, error) {
	base := r.db.Model(&models.Lead{}).
		Where("status = ?", domain.LeadStatusAvailable).
		Where("created_at >= ?", q.Since).
		Where("vendor_id IS NULL") // direct proposals are only visible to their vendor

	if q.BudgetMin > 0 {
		base = base.Where("budget_cents >= ?", q.BudgetMin)
	}
	if q.BudgetMax > 0 {
		base = base.Where("budget_cents <= ?", q.BudgetMax)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("title LIKE ? OR product_name LIKE ? OR description LIKE ?", like, like, like)
	}
	if len(q.Categories) > 0 {
		base = base.Where("category IN ?", q.Categories)
	}
	if len(q.States) > 0 {
		base = base.Where("state IN ?", q.States)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []models.Lead
	err := base.Order("created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&leads).Error
	return leads, total, err
}

// ListProposedTo returns direct proposals addressed to the vendor.
func (r *LeadRepository) ListProposedTo(vendorID uint, limit, offset int) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&leads).Error
	return leads, err
}
