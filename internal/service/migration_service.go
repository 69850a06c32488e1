package service

import (
	"errors"

	"leadmart/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrMigrationConflict = errors.New("target vendor already owns conflicting rows")

// MigrationService re-keys every vendor-owned row from one vendor id to
// another — the privileged cleanup used when a vendor account is
// re-created and its history must follow. Runs as a single transaction.
type MigrationService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewMigrationService(db *gorm.DB, log *logrus.Logger) *MigrationService {
	return &MigrationService{db: db, log: log}
}

// MigrateVendor moves purchases, contacts, quota, preferences, wallet,
// ledger, subscriptions, referrals, cashouts and bank details from
// oldID to newID. Tables with a unique vendor_id column (quota, wallet,
// preferences) refuse to migrate when the target already has a row.
func (s *MigrationService) MigrateVendor(oldID, newID uint) error {
	if oldID == newID {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.VendorQuota{}, &models.ReferralWallet{}, &models.VendorPreference{},
		} {
			var count int64
			if err := tx.Model(m).Where("vendor_id = ?", newID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrMigrationConflict
			}
		}

		vendorKeyed := []interface{}{
			&models.VendorQuota{},
			&models.ReferralWallet{},
			&models.VendorPreference{},
			&models.WalletLedgerEntry{},
			&models.VendorSubscription{},
			&models.LeadPurchase{},
			&models.LeadContact{},
			&models.CashoutRequest{},
			&models.BankDetail{},
			&models.ReferralCode{},
			&models.Payment{},
		}
		for _, m := range vendorKeyed {
			if err := tx.Model(m).Where("vendor_id = ?", oldID).
				Update("vendor_id", newID).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Referral{}).Where("referrer_id = ?", oldID).
			Update("referrer_id", newID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Referral{}).Where("referred_vendor_id = ?", oldID).
			Update("referred_vendor_id", newID).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"old_vendor_id": oldID,
		"new_vendor_id": newID,
	}).Info("vendor migration completed")
	return nil
}
