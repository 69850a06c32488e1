package service

import (
	"time"

	"leadmart/internal/models"
	"leadmart/internal/repository"

	"github.com/sirupsen/logrus"
)

// QuotaService lazily resets vendor quota counters on read. There is no
// cron: every read path calls Reset first, so a counter is never more
// than one read stale.
type QuotaService struct {
	quotaRepo *repository.QuotaRepository
	log       *logrus.Logger
	now       func() time.Time
}

func NewQuotaService(quotaRepo *repository.QuotaRepository, log *logrus.Logger) *QuotaService {
	return &QuotaService{quotaRepo: quotaRepo, log: log, now: time.Now}
}

// Reset zeroes any counter whose watermark predates the start of the
// current period and advances the watermark. The daily, weekly and
// yearly checks are independent; any combination can fire in one call.
// Returns true when at least one fired. The caller's quota is mutated
// in place; persistence is a separate concern (see ResetAndPersist).
func (s *QuotaService) Reset(q *models.VendorQuota) bool {
	now := s.now()
	fired := false

	todayMidnight := StartOfDay(now)
	if watermark(q.DailyResetAt, q.UpdatedAt, q.CreatedAt).Before(todayMidnight) {
		q.DailyUsed = 0
		q.DailyResetAt = &todayMidnight
		fired = true
	}

	mondayMidnight := StartOfWeek(now)
	if watermark(q.WeeklyResetAt, q.CreatedAt, q.CreatedAt).Before(mondayMidnight) {
		q.WeeklyUsed = 0
		q.WeeklyResetAt = &mondayMidnight
		fired = true
	}

	// Yearly boundary: calendar year, Jan 1 local midnight. See DESIGN.md
	// for the anniversary decision.
	yearStart := StartOfYear(now)
	if watermark(q.YearlyResetAt, q.CreatedAt, q.CreatedAt).Before(yearStart) {
		q.YearlyUsed = 0
		q.YearlyResetAt = &yearStart
		fired = true
	}

	return fired
}

// ResetAndPersist runs Reset and writes the row back when something
// fired. A failed write is logged and swallowed: the reset is a
// cache-coherency nicety and must never block a read path. The caller
// still gets the freshly zeroed in-memory counters.
func (s *QuotaService) ResetAndPersist(q *models.VendorQuota) {
	if !s.Reset(q) {
		return
	}
	if err := s.quotaRepo.SaveCounters(q); err != nil {
		s.log.WithFields(logrus.Fields{
			"vendor_id": q.VendorID,
			"error":     err,
		}).Warn("quota reset persist failed; serving stale-reset snapshot")
	}
}

// Snapshot loads (or creates) the vendor's quota row and applies the
// lazy reset before returning it.
func (s *QuotaService) Snapshot(vendorID uint) (*models.VendorQuota, error) {
	q, err := s.quotaRepo.GetOrCreate(vendorID)
	if err != nil {
		return nil, err
	}
	s.ResetAndPersist(q)
	return q, nil
}

// watermark picks the stored reset timestamp, falling back through the
// row's bookkeeping columns when it was never set.
func watermark(reset *time.Time, first, second time.Time) time.Time {
	if reset != nil && !reset.IsZero() {
		return *reset
	}
	if !first.IsZero() {
		return first
	}
	return second
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of t's ISO week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	// Weekday is Sunday=0; shift so Monday=0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfYear returns Jan 1 00:00 of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
