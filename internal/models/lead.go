package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead is a buyer-submitted requirement. Buyer contact fields are only
// exposed to a vendor that holds a purchase for the lead or that the
// lead was proposed to directly; handlers mask them otherwise.
type Lead struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BuyerID       uint           `gorm:"not null;index" json:"buyer_id"`
	VendorID      *uint          `gorm:"index" json:"vendor_id"` // set for direct proposals to one vendor
	Title         string         `gorm:"size:255;not null" json:"title"`
	ProductName   string         `gorm:"size:255;not null" json:"product_name"`
	Category      string         `gorm:"size:128;index" json:"category"`
	Description   string         `gorm:"type:text" json:"description"`
	BudgetCents   int64          `gorm:"not null;default:0" json:"budget_cents"`
	Quantity      int            `gorm:"not null;default:1" json:"quantity"`
	Unit          string         `gorm:"size:32" json:"unit"`
	State         string         `gorm:"size:64;index" json:"state"`
	City          string         `gorm:"size:64" json:"city"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // AVAILABLE, SOLD, CLOSED
	BuyerName     string         `gorm:"size:128" json:"buyer_name,omitempty"`
	BuyerEmail    string         `gorm:"size:255" json:"buyer_email,omitempty"`
	BuyerPhone    string         `gorm:"size:20" json:"buyer_phone,omitempty"`
	AttachmentURL string         `gorm:"size:512" json:"attachment_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lead) TableName() string { return "leads" }

// Masked returns a copy with buyer contact fields blanked.
func (l Lead) Masked() Lead {
	l.BuyerName = ""
	l.BuyerEmail = ""
	l.BuyerPhone = ""
	return l
}
