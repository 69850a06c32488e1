package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralWallet holds a vendor's referral earnings. Invariants:
// available + pending + reserved <= lifetime_earned, and
// lifetime_paid_out <= lifetime_earned. Reserved is the amount held by
// in-flight cashout requests. Balance moves happen only through guarded
// updates so two browser tabs cannot jointly overdraw.
type ReferralWallet struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	VendorID             uint           `gorm:"uniqueIndex;not null" json:"vendor_id"`
	AvailableCents       int64          `gorm:"not null;default:0" json:"available_cents"`
	PendingCents         int64          `gorm:"not null;default:0" json:"pending_cents"`
	ReservedCents        int64          `gorm:"not null;default:0" json:"reserved_cents"`
	LifetimeEarnedCents  int64          `gorm:"not null;default:0" json:"lifetime_earned_cents"`
	LifetimePaidOutCents int64          `gorm:"not null;default:0" json:"lifetime_paid_out_cents"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferralWallet) TableName() string { return "referral_wallets" }

// WalletLedgerEntry is the append-only source of truth behind wallet
// balances.
type WalletLedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VendorID    uint      `gorm:"not null;index" json:"vendor_id"`
	EntryType   string    `gorm:"size:20;not null;index" json:"entry_type"` // CREDIT, MATURE, HOLD, RELEASE, DEBIT
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	ReferralID  *uint     `gorm:"index" json:"referral_id"`
	PaymentID   *uint     `gorm:"index" json:"payment_id"`
	CashoutID   *uint     `gorm:"index" json:"cashout_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (WalletLedgerEntry) TableName() string { return "wallet_ledger_entries" }
