package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralCode is a unique invite code belonging to a vendor. Each
// vendor has at most one code.
type ReferralCode struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	VendorID  uint           `gorm:"uniqueIndex;not null" json:"vendor_id"`
	Code      string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

// Referral is one edge of the referral program's state machine:
// LINKED -> QUALIFIED -> REWARDED, with REJECTED terminal. A vendor can
// be referred at most once (unique index on referred_vendor_id).
type Referral struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ReferrerID       uint           `gorm:"not null;index" json:"referrer_id"`
	ReferredVendorID uint           `gorm:"uniqueIndex;not null" json:"referred_vendor_id"`
	Status           string         `gorm:"size:20;not null;index" json:"status"`
	RewardCents      int64          `gorm:"not null;default:0" json:"reward_cents"`
	QualifiedAt      *time.Time     `json:"qualified_at"`
	RewardedAt       *time.Time     `json:"rewarded_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	ReferredVendor User `gorm:"foreignKey:ReferredVendorID" json:"referred_vendor,omitempty"`
}

func (Referral) TableName() string { return "referrals" }
