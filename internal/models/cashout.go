package models

import (
	"time"

	"gorm.io/gorm"
)

type BankDetail struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	VendorID      uint           `gorm:"not null;index" json:"vendor_id"`
	AccountName   string         `gorm:"size:128;not null" json:"account_name"`
	AccountNumber string         `gorm:"size:32;not null" json:"account_number"`
	IFSC          string         `gorm:"size:16;not null" json:"ifsc"`
	BankName      string         `gorm:"size:128" json:"bank_name"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BankDetail) TableName() string { return "bank_details" }

// CashoutRequest asks for a payout of referral earnings. The requested
// amount is validated against available_balance and moved into the
// wallet's reserved bucket in the same transaction that creates this
// row; the amount is never re-validated later.
type CashoutRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	VendorID     uint           `gorm:"not null;index" json:"vendor_id"`
	OrderID      string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	AmountCents  int64          `gorm:"not null" json:"amount_cents"`
	BankDetailID uint           `gorm:"not null" json:"bank_detail_id"`
	Note         string         `gorm:"size:255" json:"note"`
	Status       string         `gorm:"size:20;not null;index" json:"status"` // PENDING, PAID, REJECTED
	ProcessedAt  *time.Time     `json:"processed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	BankDetail BankDetail `gorm:"foreignKey:BankDetailID" json:"bank_detail,omitempty"`
}

func (CashoutRequest) TableName() string { return "cashout_requests" }
