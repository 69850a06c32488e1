package repository

import (
	"errors"

	"leadmart/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByVendorID(vendorID uint) (*models.ReferralWallet, error) {
	var w models.ReferralWallet
	if err := r.db.Where("vendor_id = ?", vendorID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(vendorID uint) (*models.ReferralWallet, error) {
	w, err := r.GetByVendorID(vendorID)
	if err == nil {
		return w, nil
	}
	w = &models.ReferralWallet{VendorID: vendorID}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// CreditPending accrues a reward: pending and lifetime_earned grow
// together so the earned invariant holds by construction.
func (r *WalletRepository) CreditPending(tx *gorm.DB, vendorID uint, amountCents int64) error {
	return tx.Model(&models.ReferralWallet{}).
		Where("vendor_id = ?", vendorID).
		Updates(map[string]interface{}{
			"pending_cents":         gorm.Expr("pending_cents + ?", amountCents),
			"lifetime_earned_cents": gorm.Expr("lifetime_earned_cents + ?", amountCents),
		}).Error
}

// MaturePending moves funds from pending to available. The guard makes
// the move conditional on sufficient pending balance; no read-then-write.
func (r *WalletRepository) MaturePending(tx *gorm.DB, vendorID uint, amountCents int64) error {
	res := tx.Model(&models.ReferralWallet{}).
		Where("vendor_id = ? AND pending_cents >= ?", vendorID, amountCents).
		Updates(map[string]interface{}{
			"pending_cents":   gorm.Expr("pending_cents - ?", amountCents),
			"available_cents": gorm.Expr("available_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Hold reserves funds for a cashout request. The balance check and the
// move out of available happen in one conditional update, so two
// concurrent requests that jointly exceed the balance cannot both pass.
func (r *WalletRepository) Hold(tx *gorm.DB, vendorID uint, amountCents int64) error {
	res := tx.Model(&models.ReferralWallet{}).
		Where("vendor_id = ? AND available_cents >= ?", vendorID, amountCents).
		Updates(map[string]interface{}{
			"available_cents": gorm.Expr("available_cents - ?", amountCents),
			"reserved_cents":  gorm.Expr("reserved_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// ReleaseHold returns reserved funds to available after a rejection.
func (r *WalletRepository) ReleaseHold(tx *gorm.DB, vendorID uint, amountCents int64) error {
	res := tx.Model(&models.ReferralWallet{}).
		Where("vendor_id = ? AND reserved_cents >= ?", vendorID, amountCents).
		Updates(map[string]interface{}{
			"reserved_cents":  gorm.Expr("reserved_cents - ?", amountCents),
			"available_cents": gorm.Expr("available_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// SettleHold pays out reserved funds: reserved shrinks and
// lifetime_paid_out grows by the same amount.
func (r *WalletRepository) SettleHold(tx *gorm.DB, vendorID uint, amountCents int64) error {
	res := tx.Model(&models.ReferralWallet{}).
		Where("vendor_id = ? AND reserved_cents >= ?", vendorID, amountCents).
		Updates(map[string]interface{}{
			"reserved_cents":          gorm.Expr("reserved_cents - ?", amountCents),
			"lifetime_paid_out_cents": gorm.Expr("lifetime_paid_out_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// AppendLedger writes an append-only ledger entry.
func (r *WalletRepository) AppendLedger(tx *gorm.DB, entry *models.WalletLedgerEntry) error {
	return tx.Create(entry).Error
}

func (r *WalletRepository) ListLedger(vendorID uint, limit, offset int) ([]models.WalletLedgerEntry, error) {
	var entries []models.WalletLedgerEntry
	err := r.db.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}
