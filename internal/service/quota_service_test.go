package service

import (
	"testing"
	"time"

	"leadmart/internal/models"
	"leadmart/internal/repository"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResetDailyFiresAtMidnightBoundary(t *testing.T) {
	t.Parallel()
	svc := NewQuotaService(nil, newTestLogger())
	now := time.Date(2026, 6, 10, 0, 0, 1, 0, time.Local) // just past midnight Wednesday
	svc.now = fixedClock(now)

	yesterday := time.Date(2026, 6, 9, 23, 59, 0, 0, time.Local)
	weekStart := StartOfWeek(now)
	yearStart := StartOfYear(now)
	q := &models.VendorQuota{
		DailyUsed:     5,
		WeeklyUsed:    12,
		YearlyUsed:    90,
		DailyResetAt:  &yesterday,
		WeeklyResetAt: &weekStart,
		YearlyResetAt: &yearStart,
	}

	if !svc.Reset(q) {
		t.Fatal("expected daily reset to fire")
	}
	if q.DailyUsed != 0 {
		t.Errorf("daily_used = %d, want 0", q.DailyUsed)
	}
	if q.WeeklyUsed != 12 || q.YearlyUsed != 90 {
		t.Errorf("weekly/yearly touched: %d/%d, want 12/90", q.WeeklyUsed, q.YearlyUsed)
	}
	if q.DailyResetAt == nil || !q.DailyResetAt.Equal(StartOfDay(now)) {
		t.Errorf("daily watermark = %v, want %v", q.DailyResetAt, StartOfDay(now))
	}
}

func TestResetDoesNotFireWithinSameDay(t *testing.T) {
	t.Parallel()
	svc := NewQuotaService(nil, newTestLogger())
	now := time.Date(2026, 6, 10, 18, 30, 0, 0, time.Local)
	svc.now = fixedClock(now)

	morning := time.Date(2026, 6, 10, 0, 0, 0, 0, time.Local)
	weekStart := StartOfWeek(now)
	yearStart := StartOfYear(now)
	q := &models.VendorQuota{
		DailyUsed:     3,
		DailyResetAt:  &morning,
		WeeklyResetAt: &weekStart,
		YearlyResetAt: &yearStart,
	}

	if svc.Reset(q) {
		t.Fatal("reset fired within the same day")
	}
	if q.DailyUsed != 3 {
		t.Errorf("daily_used = %d, want 3", q.DailyUsed)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	t.Parallel()
	svc := NewQuotaService(nil, newTestLogger())
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, time.Local)
	svc.now = fixedClock(now)

	old := now.AddDate(0, 0, -40)
	q := &models.VendorQuota{
		DailyUsed:     4,
		WeeklyUsed:    9,
		YearlyUsed:    50,
		DailyResetAt:  &old,
		WeeklyResetAt: &old,
		YearlyResetAt: &old,
	}

	if !svc.Reset(q) {
		t.Fatal("first reset should fire")
	}
	if svc.Reset(q) {
		t.Fatal("second reset in the same instant fired again")
	}
}

func TestResetPeriodsFireIndependently(t *testing.T) {
	t.Parallel()
	svc := NewQuotaService(nil, newTestLogger())
	// Thursday Jan 1: a new day, a new week segment, and a new year all at once.
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local)
	svc.now = fixedClock(now)

	lastYear := time.Date(2025, 12, 31, 12, 0, 0, 0, time.Local)
	q := &models.VendorQuota{
		DailyUsed:     2,
		WeeklyUsed:    7,
		YearlyUsed:    480,
		DailyResetAt:  &lastYear,
		WeeklyResetAt: &lastYear,
		YearlyResetAt: &lastYear,
	}

	if !svc.Reset(q) {
		t.Fatal("expected resets to fire")
	}
	if q.DailyUsed != 0 || q.YearlyUsed != 0 {
		t.Errorf("daily/yearly = %d/%d, want 0/0", q.DailyUsed, q.YearlyUsed)
	}
	// Dec 31 2025 was a Wednesday; Jan 1 2026 is in the week that began
	// Monday Dec 29, so the weekly watermark is still current.
	if q.WeeklyUsed != 7 {
		t.Errorf("weekly_used = %d, want 7 (same ISO week)", q.WeeklyUsed)
	}
}

func TestResetWatermarkFallback(t *testing.T) {
	t.Parallel()
	svc := NewQuotaService(nil, newTestLogger())
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, time.Local)
	svc.now = fixedClock(now)

	// No watermarks stored yet: daily falls back to UpdatedAt, weekly
	// and yearly to CreatedAt.
	q := &models.VendorQuota{
		DailyUsed:  6,
		WeeklyUsed: 6,
		YearlyUsed: 6,
		CreatedAt:  now.AddDate(0, 0, -30),
		UpdatedAt:  now.AddDate(0, 0, -2),
	}

	if !svc.Reset(q) {
		t.Fatal("expected fallback watermarks to trigger resets")
	}
	if q.DailyUsed != 0 || q.WeeklyUsed != 0 {
		t.Errorf("daily/weekly = %d/%d, want 0/0", q.DailyUsed, q.WeeklyUsed)
	}
	// Created in the same calendar year: yearly stays.
	if q.YearlyUsed != 6 {
		t.Errorf("yearly_used = %d, want 6", q.YearlyUsed)
	}
}

func TestStartOfWeekAlwaysMonday(t *testing.T) {
	t.Parallel()
	// 2026-06-08 is a Monday.
	monday := time.Date(2026, 6, 8, 0, 0, 0, 0, time.Local)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i).Add(13 * time.Hour)
		got := StartOfWeek(day)
		if !got.Equal(monday) {
			t.Errorf("StartOfWeek(%s) = %v, want %v", day.Weekday(), got, monday)
		}
	}
}

func TestSnapshotPersistsFiredReset(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	quotaRepo := repository.NewQuotaRepository(db)
	svc := NewQuotaService(quotaRepo, newTestLogger())

	old := time.Now().AddDate(0, 0, -10)
	seed := &models.VendorQuota{
		VendorID:      42,
		DailyUsed:     5,
		WeeklyUsed:    5,
		YearlyUsed:    5,
		DailyResetAt:  &old,
		WeeklyResetAt: &old,
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed quota: %v", err)
	}

	q, err := svc.Snapshot(42)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if q.DailyUsed != 0 || q.WeeklyUsed != 0 {
		t.Errorf("snapshot counters = %d/%d, want 0/0", q.DailyUsed, q.WeeklyUsed)
	}

	stored, err := quotaRepo.GetByVendorID(42)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.DailyUsed != 0 || stored.WeeklyUsed != 0 {
		t.Errorf("stored counters = %d/%d, want 0/0 after persist", stored.DailyUsed, stored.WeeklyUsed)
	}
}

func TestSnapshotCreatesMissingRow(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewQuotaService(repository.NewQuotaRepository(db), newTestLogger())

	q, err := svc.Snapshot(7)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if q.VendorID != 7 || q.DailyUsed != 0 {
		t.Errorf("unexpected fresh quota: %+v", q)
	}
}
