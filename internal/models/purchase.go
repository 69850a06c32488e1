package models

import (
	"time"

	"gorm.io/gorm"
)

// LeadPurchase is the record of a vendor unlocking a lead. The composite
// unique index on (vendor_id, lead_id) is what serializes concurrent
// purchase attempts: the second insert fails, it never duplicates.
// Rows are immutable after creation.
type LeadPurchase struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	VendorID     uint           `gorm:"not null;uniqueIndex:idx_vendor_lead" json:"vendor_id"`
	LeadID       uint           `gorm:"not null;uniqueIndex:idx_vendor_lead" json:"lead_id"`
	PurchaseDate time.Time      `gorm:"not null" json:"purchase_date"`
	AmountCents  int64          `gorm:"not null;default:0" json:"amount_cents"` // 0 for quota-funded purchases
	Mode         string         `gorm:"size:20;not null" json:"mode"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Lead Lead `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
}

func (LeadPurchase) TableName() string { return "lead_purchases" }
