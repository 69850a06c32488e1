package models

import (
	"time"
)

// VendorQuota tracks how many leads a vendor has consumed in the current
// day, ISO week and calendar year. The *_reset_at columns are watermarks:
// a counter is zeroed lazily, on read, when its watermark predates the
// start of the current period. Counters only grow between resets.
type VendorQuota struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	VendorID      uint       `gorm:"uniqueIndex;not null" json:"vendor_id"`
	DailyUsed     int        `gorm:"not null;default:0" json:"daily_used"`
	WeeklyUsed    int        `gorm:"not null;default:0" json:"weekly_used"`
	YearlyUsed    int        `gorm:"not null;default:0" json:"yearly_used"`
	DailyResetAt  *time.Time `json:"daily_reset_at"`
	WeeklyResetAt *time.Time `json:"weekly_reset_at"`
	YearlyResetAt *time.Time `json:"yearly_reset_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (VendorQuota) TableName() string { return "vendor_quotas" }
