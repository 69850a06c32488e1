package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// generateReferralCode returns an 8-character hex referral code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreateCode returns the vendor's referral code, creating a unique
// one on first use.
func (r *ReferralRepository) GetOrCreateCode(vendorID uint) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Where("vendor_id = ?", vendorID).First(&rc).Error; err == nil {
		return &rc, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}
		rc = models.ReferralCode{VendorID: vendorID, Code: code, IsActive: true}
		if err := r.db.Create(&rc).Error; err == nil {
			return &rc, nil
		}
		// collision: retry with a new code
	}
	return nil, fmt.Errorf("failed to generate a unique referral code after retries")
}

func (r *ReferralRepository) GetByCode(code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *ReferralRepository) Create(ref *models.Referral) error {
	return r.db.Create(ref).Error
}

func (r *ReferralRepository) GetByReferredVendor(vendorID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_vendor_id = ?", vendorID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferralRepository) GetByID(id uint) (*models.Referral, error) {
	var ref models.Referral
	if err := r.db.First(&ref, id).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

// MarkQualified advances LINKED -> QUALIFIED. Guarded on the current
// state so a webhook retry cannot double-advance.
func (r *ReferralRepository) MarkQualified(tx *gorm.DB, id uint, at time.Time) (bool, error) {
	res := tx.Model(&models.Referral{}).
		Where("id = ? AND status = ?", id, domain.ReferralStatusLinked).
		Updates(map[string]interface{}{
			"status":       domain.ReferralStatusQualified,
			"qualified_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkRewarded advances QUALIFIED -> REWARDED and records the reward.
func (r *ReferralRepository) MarkRewarded(tx *gorm.DB, id uint, rewardCents int64, at time.Time) (bool, error) {
	res := tx.Model(&models.Referral{}).
		Where("id = ? AND status = ?", id, domain.ReferralStatusQualified).
		Updates(map[string]interface{}{
			"status":       domain.ReferralStatusRewarded,
			"reward_cents": rewardCents,
			"rewarded_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReferralRepository) ListByReferrer(referrerID uint, limit, offset int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("ReferredVendor").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
