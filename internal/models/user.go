package models

import (
	"time"

	"leadmart/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // BUYER | VENDOR | ADMIN
	Phone        string         `gorm:"size:20" json:"phone"`
	CompanyName  string         `gorm:"size:255" json:"company_name"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	LogoURL      string         `gorm:"size:512" json:"logo_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsVendor() bool { return u.Role == domain.RoleVendor }
func (u *User) IsBuyer() bool  { return u.Role == domain.RoleBuyer }
func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }
