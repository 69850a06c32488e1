package service

import (
	"errors"
	"testing"
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/pkg/payment"

	"gorm.io/gorm"
)

func newPurchaseService(t *testing.T, db *gorm.DB) *PurchaseService {
	t.Helper()
	log := newTestLogger()
	return NewPurchaseService(
		db,
		NewQuotaService(repository.NewQuotaRepository(db), log),
		NewSubscriptionService(repository.NewSubscriptionRepository(db)),
		repository.NewQuotaRepository(db),
		repository.NewLeadRepository(db),
		repository.NewPurchaseRepository(db),
		repository.NewPaymentRepository(db),
		&payment.StubProvider{},
		log,
	)
}

func seedQuota(t *testing.T, db *gorm.DB, vendorID uint, daily, weekly, yearly int) *models.VendorQuota {
	t.Helper()
	today := StartOfDay(time.Now())
	weekStart := StartOfWeek(time.Now())
	yearStart := StartOfYear(time.Now())
	q := &models.VendorQuota{
		VendorID:      vendorID,
		DailyUsed:     daily,
		WeeklyUsed:    weekly,
		YearlyUsed:    yearly,
		DailyResetAt:  &today,
		WeeklyResetAt: &weekStart,
		YearlyResetAt: &yearStart,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed quota: %v", err)
	}
	return q
}

func TestPurchaseAutoConsumesDaily(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	plan := seedPlan(t, db, 5, 20, 500)
	seedSubscription(t, db, 1, plan)
	seedQuota(t, db, 1, 0, 0, 0)
	lead := seedLead(t, db, 100)

	result, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.Purchase.Mode != domain.PurchaseModeAuto {
		t.Errorf("mode = %s, want AUTO", result.Purchase.Mode)
	}
	if result.Purchase.AmountCents != 0 {
		t.Errorf("quota purchase amount = %d, want 0", result.Purchase.AmountCents)
	}
	if result.Quota.DailyUsed != 1 || result.Quota.WeeklyUsed != 1 || result.Quota.YearlyUsed != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/1/1",
			result.Quota.DailyUsed, result.Quota.WeeklyUsed, result.Quota.YearlyUsed)
	}
}

func TestPurchaseAutoFallsBackToWeekly(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	plan := seedPlan(t, db, 2, 20, 500)
	seedSubscription(t, db, 1, plan)
	seedQuota(t, db, 1, 2, 2, 2) // daily exhausted, weekly has headroom
	lead := seedLead(t, db, 100)

	result, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto)
	if err != nil {
		t.Fatalf("purchase should fall back to weekly: %v", err)
	}
	if result.Quota.WeeklyUsed != 3 {
		t.Errorf("weekly_used = %d, want 3", result.Quota.WeeklyUsed)
	}
}

func TestPurchaseQuotaExhausted(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	plan := seedPlan(t, db, 2, 4, 500)
	seedSubscription(t, db, 1, plan)
	seedQuota(t, db, 1, 2, 4, 6) // daily and weekly both at limit
	lead := seedLead(t, db, 100)

	_, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
	var count int64
	db.Model(&models.LeadPurchase{}).Count(&count)
	if count != 0 {
		t.Errorf("%d purchase rows written on exhausted quota, want 0", count)
	}
}

func TestPurchaseAutoStopsAtYearlyLimit(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	plan := seedPlan(t, db, 5, 20, 100)
	seedSubscription(t, db, 1, plan)
	seedQuota(t, db, 1, 0, 0, 100) // daily and weekly wide open, yearly at limit
	lead := seedLead(t, db, 100)

	_, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
	var q models.VendorQuota
	if err := db.Where("vendor_id = ?", 1).First(&q).Error; err != nil {
		t.Fatalf("load quota: %v", err)
	}
	if q.DailyUsed != 0 || q.WeeklyUsed != 0 || q.YearlyUsed != 100 {
		t.Errorf("counters = %d/%d/%d, want 0/0/100", q.DailyUsed, q.WeeklyUsed, q.YearlyUsed)
	}
	var count int64
	db.Model(&models.LeadPurchase{}).Count(&count)
	if count != 0 {
		t.Errorf("%d purchase rows written past yearly limit, want 0", count)
	}
}

func TestConsumeUnitEnforcesYearlyCeiling(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := repository.NewQuotaRepository(db)
	seedQuota(t, db, 1, 0, 0, 500)

	// A daily consume with daily headroom must still fail once the
	// yearly counter is at its ceiling, even when the caller's view of
	// the counters is stale.
	ok, err := repo.ConsumeUnit(db, 1, repository.PeriodGuard{Period: repository.PeriodDaily, Limit: 5}, 500)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok {
		t.Fatal("consume succeeded with yearly_used at limit")
	}
	var q models.VendorQuota
	if err := db.Where("vendor_id = ?", 1).First(&q).Error; err != nil {
		t.Fatalf("load quota: %v", err)
	}
	if q.YearlyUsed != 500 || q.DailyUsed != 0 {
		t.Errorf("counters = %d daily / %d yearly, want 0 / 500", q.DailyUsed, q.YearlyUsed)
	}

	// Yearly limit 0 means unlimited.
	ok, err = repo.ConsumeUnit(db, 1, repository.PeriodGuard{Period: repository.PeriodDaily, Limit: 5}, 0)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !ok {
		t.Fatal("consume rejected with unlimited yearly")
	}
}

func TestPurchaseDuplicateRollsBackConsume(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	plan := seedPlan(t, db, 5, 20, 500)
	seedSubscription(t, db, 1, plan)
	seedQuota(t, db, 1, 0, 0, 0)
	lead := seedLead(t, db, 100)

	if _, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	_, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto)
	if !errors.Is(err, ErrAlreadyPurchased) {
		t.Fatalf("err = %v, want ErrAlreadyPurchased", err)
	}

	var count int64
	db.Model(&models.LeadPurchase{}).Where("vendor_id = ?", 1).Count(&count)
	if count != 1 {
		t.Errorf("purchase rows = %d, want 1", count)
	}
	// The duplicate attempt's quota consume must have rolled back.
	var q models.VendorQuota
	if err := db.Where("vendor_id = ?", 1).First(&q).Error; err != nil {
		t.Fatalf("reload quota: %v", err)
	}
	if q.DailyUsed != 1 {
		t.Errorf("daily_used = %d after duplicate attempt, want 1", q.DailyUsed)
	}
}

func TestPurchaseWithoutSubscription(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	lead := seedLead(t, db, 100)

	_, err := svc.Purchase(1, lead.ID, domain.PurchaseModeAuto)
	if !errors.Is(err, ErrNoSubscription) {
		t.Fatalf("err = %v, want ErrNoSubscription", err)
	}
}

func TestPurchasePaidModeRequiresCheckout(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	lead := seedLead(t, db, 100)

	_, err := svc.Purchase(1, lead.ID, domain.PurchaseModePaid)
	if !errors.Is(err, ErrPaymentRequired) {
		t.Fatalf("err = %v, want ErrPaymentRequired", err)
	}
}

func TestPaidPurchaseLifecycle(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	seedQuota(t, db, 1, 0, 0, 0)
	lead := seedLead(t, db, 100)

	p, checkout, err := svc.InitiatePaidPurchase(1, lead.ID, 9900)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if p.Status != domain.PaymentStatusPending {
		t.Errorf("payment status = %s, want PENDING", p.Status)
	}
	if checkout.Reference == "" {
		t.Error("checkout reference missing")
	}

	// No purchase row until the webhook confirms.
	var count int64
	db.Model(&models.LeadPurchase{}).Count(&count)
	if count != 0 {
		t.Fatalf("purchase rows before settlement = %d, want 0", count)
	}

	purchase, err := svc.CompletePaidPurchase(db, p)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if purchase.Mode != domain.PurchaseModePaid {
		t.Errorf("mode = %s, want PAID", purchase.Mode)
	}
	if purchase.AmountCents != 9900 {
		t.Errorf("amount = %d, want 9900", purchase.AmountCents)
	}

	// Paid purchases never touch quota.
	var q models.VendorQuota
	if err := db.Where("vendor_id = ?", 1).First(&q).Error; err != nil {
		t.Fatalf("reload quota: %v", err)
	}
	if q.DailyUsed != 0 || q.WeeklyUsed != 0 || q.YearlyUsed != 0 {
		t.Errorf("counters = %d/%d/%d after paid purchase, want 0/0/0",
			q.DailyUsed, q.WeeklyUsed, q.YearlyUsed)
	}
}

func TestHasAccess(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newPurchaseService(t, db)
	plan := seedPlan(t, db, 5, 20, 500)
	seedSubscription(t, db, 1, plan)
	seedQuota(t, db, 1, 0, 0, 0)

	bought := seedLead(t, db, 100)
	if _, err := svc.Purchase(1, bought.ID, domain.PurchaseModeAuto); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	vendor := uint(1)
	proposed := seedLead(t, db, 100)
	if err := db.Model(proposed).Update("vendor_id", vendor).Error; err != nil {
		t.Fatalf("mark proposal: %v", err)
	}
	proposed.VendorID = &vendor
	untouched := seedLead(t, db, 100)

	cases := []struct {
		name string
		lead *models.Lead
		want bool
	}{
		{"purchased lead", bought, true},
		{"direct proposal", proposed, true},
		{"unrelated lead", untouched, false},
	}
	for _, tc := range cases {
		got, err := svc.HasAccess(1, tc.lead)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: access = %v, want %v", tc.name, got, tc.want)
		}
	}
}
