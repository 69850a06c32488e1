package repository

import (
	"leadmart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) GetByVendorID(vendorID uint) (*models.VendorPreference, error) {
	var p models.VendorPreference
	if err := r.db.Where("vendor_id = ?", vendorID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates the preference row lazily on first save and updates it
// afterwards.
func (r *PreferenceRepository) Upsert(p *models.VendorPreference) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"categories", "states", "cities",
			"budget_min_cents", "budget_max_cents",
			"auto_lead_filter", "updated_at",
		}),
	}).Create(p).Error
}
