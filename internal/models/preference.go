package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// VendorPreference stores a vendor's desired lead profile. Created
// lazily on the first save; list fields are comma separated.
type VendorPreference struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	VendorID       uint           `gorm:"uniqueIndex;not null" json:"vendor_id"`
	Categories     string         `gorm:"size:512" json:"categories"`
	States         string         `gorm:"size:512" json:"states"`
	Cities         string         `gorm:"size:512" json:"cities"`
	BudgetMinCents int64          `gorm:"not null;default:0" json:"budget_min_cents"`
	BudgetMaxCents int64          `gorm:"not null;default:0" json:"budget_max_cents"`
	AutoLeadFilter bool           `gorm:"default:false" json:"auto_lead_filter"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (VendorPreference) TableName() string { return "vendor_preferences" }

func (p *VendorPreference) CategoryList() []string { return splitList(p.Categories) }
func (p *VendorPreference) StateList() []string    { return splitList(p.States) }
func (p *VendorPreference) CityList() []string     { return splitList(p.Cities) }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
