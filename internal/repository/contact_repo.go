package repository

import (
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"

	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(c *models.LeadContact) error {
	return r.db.Create(c).Error
}

func (r *ContactRepository) ListByVendorLead(vendorID, leadID uint) ([]models.LeadContact, error) {
	var contacts []models.LeadContact
	err := r.db.Where("vendor_id = ? AND lead_id = ?", vendorID, leadID).
		Order("contact_date DESC").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) GetByID(id uint) (*models.LeadContact, error) {
	var c models.LeadContact
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.LeadContact{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ContactRepository) CountConvertedSince(vendorID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.LeadContact{}).
		Where("vendor_id = ? AND status = ? AND contact_date >= ?",
			vendorID, domain.ContactStatusConverted, since).
		Count(&count).Error
	return count, err
}
