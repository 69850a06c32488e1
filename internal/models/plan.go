package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan is a catalog entry of a lead-credit subscription. A limit of 0
// means unlimited for that period.
type Plan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:64;uniqueIndex;not null" json:"name"`
	DailyLimit   int            `gorm:"not null;default:0" json:"daily_limit"`
	WeeklyLimit  int            `gorm:"not null;default:0" json:"weekly_limit"`
	YearlyLimit  int            `gorm:"not null;default:0" json:"yearly_limit"`
	PriceCents   int64          `gorm:"not null;default:0" json:"price_cents"`
	DurationDays int            `gorm:"not null;default:30" json:"duration_days"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Plan) TableName() string { return "plans" }

type VendorSubscription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	VendorID  uint           `gorm:"not null;index" json:"vendor_id"`
	PlanID    uint           `gorm:"not null;index" json:"plan_id"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE, EXPIRED, CANCELLED
	StartDate time.Time      `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Plan Plan `gorm:"foreignKey:PlanID" json:"plan"`
}

func (VendorSubscription) TableName() string { return "vendor_subscriptions" }
