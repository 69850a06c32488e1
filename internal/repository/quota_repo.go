package repository

import (
	"time"

	"leadmart/internal/models"

	"gorm.io/gorm"
)

type QuotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

func (r *QuotaRepository) GetByVendorID(vendorID uint) (*models.VendorQuota, error) {
	var q models.VendorQuota
	if err := r.db.Where("vendor_id = ?", vendorID).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotaRepository) GetOrCreate(vendorID uint) (*models.VendorQuota, error) {
	q, err := r.GetByVendorID(vendorID)
	if err == nil {
		return q, nil
	}
	q = &models.VendorQuota{VendorID: vendorID}
	if err := r.db.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// SaveCounters persists the counter and watermark columns after a lazy
// reset fired.
func (r *QuotaRepository) SaveCounters(q *models.VendorQuota) error {
	return r.db.Model(q).Updates(map[string]interface{}{
		"daily_used":      q.DailyUsed,
		"weekly_used":     q.WeeklyUsed,
		"yearly_used":     q.YearlyUsed,
		"daily_reset_at":  q.DailyResetAt,
		"weekly_reset_at": q.WeeklyResetAt,
		"yearly_reset_at": q.YearlyResetAt,
	}).Error
}

// IncrementAll bumps all three used counters by one in a single atomic
// update, regardless of limits.
func (r *QuotaRepository) IncrementAll(vendorID uint) error {
	return r.incrementAll(r.db, vendorID)
}

// IncrementAllTx is IncrementAll inside an existing transaction.
func (r *QuotaRepository) IncrementAllTx(tx *gorm.DB, vendorID uint) error {
	return r.incrementAll(tx, vendorID)
}

func (r *QuotaRepository) incrementAll(db *gorm.DB, vendorID uint) error {
	return db.Model(&models.VendorQuota{}).
		Where("vendor_id = ?", vendorID).
		Updates(map[string]interface{}{
			"daily_used":  gorm.Expr("daily_used + 1"),
			"weekly_used": gorm.Expr("weekly_used + 1"),
			"yearly_used": gorm.Expr("yearly_used + 1"),
		}).Error
}

// ConsumeUnit is the authoritative quota decrement for a purchase: a
// conditional increment that only succeeds while the guarded period is
// under its plan limit. A limit of 0 means unlimited. Returns false
// when a guard rejected the update, which callers must treat as
// quota exhausted. Runs inside the caller's transaction so the check
// and the consume are one atomic statement under concurrency.
//
// The yearly ceiling caps every consume no matter which period funds
// it, so it is part of the WHERE clause unconditionally rather than a
// guard the caller can omit.
func (r *QuotaRepository) ConsumeUnit(tx *gorm.DB, vendorID uint, guard PeriodGuard, yearlyLimit int) (bool, error) {
	q := tx.Model(&models.VendorQuota{}).
		Where("vendor_id = ?", vendorID).
		Where("? = 0 OR yearly_used < ?", yearlyLimit, yearlyLimit)
	switch guard.Period {
	case PeriodDaily:
		q = q.Where("? = 0 OR daily_used < ?", guard.Limit, guard.Limit)
	case PeriodWeekly:
		q = q.Where("? = 0 OR weekly_used < ?", guard.Limit, guard.Limit)
	}
	res := q.Updates(map[string]interface{}{
		"daily_used":  gorm.Expr("daily_used + 1"),
		"weekly_used": gorm.Expr("weekly_used + 1"),
		"yearly_used": gorm.Expr("yearly_used + 1"),
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type Period int

const (
	PeriodDaily Period = iota
	PeriodWeekly
)

// PeriodGuard names the counter a conditional consume is checked
// against and its plan limit.
type PeriodGuard struct {
	Period Period
	Limit  int
}
