package models

import (
	"time"

	"gorm.io/gorm"
)

// LeadContact records one outreach attempt against a purchased or owned
// lead. Many per (vendor, lead); status is advanced by follow-up actions.
type LeadContact struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	VendorID    uint           `gorm:"not null;index" json:"vendor_id"`
	LeadID      uint           `gorm:"not null;index" json:"lead_id"`
	ContactType string         `gorm:"size:20;not null" json:"contact_type"` // CALL, WHATSAPP, EMAIL
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, CONTACTED, CONVERTED
	ContactDate time.Time      `gorm:"not null" json:"contact_date"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LeadContact) TableName() string { return "lead_contacts" }
