package service

import (
	"testing"
	"time"

	"leadmart/config"
	"leadmart/internal/models"
	"leadmart/internal/repository"

	"gorm.io/gorm"
)

func testLeadsConfig() *config.LeadsConfig {
	return &config.LeadsConfig{
		VisibilityWindowDays: 30,
		DefaultPageSize:      20,
		MaxPageSize:          100,
	}
}

func newLeadService(t *testing.T, db *gorm.DB) *LeadService {
	t.Helper()
	log := newTestLogger()
	return NewLeadService(
		testLeadsConfig(),
		repository.NewLeadRepository(db),
		repository.NewPreferenceRepository(db),
		NewQuotaService(repository.NewQuotaRepository(db), log),
		NewSubscriptionService(repository.NewSubscriptionRepository(db)),
		log,
	)
}

func TestAvailableLeadsWithoutSubscription(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newLeadService(t, db)
	seedLead(t, db, 100)

	feed, err := svc.AvailableLeads(1, LeadFilters{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.Message != MsgNoActiveSubscription {
		t.Errorf("message = %q, want %q", feed.Message, MsgNoActiveSubscription)
	}
	if len(feed.Data) != 0 {
		t.Errorf("gated feed returned %d leads, want 0", len(feed.Data))
	}
	if feed.Quota == nil {
		t.Error("gated feed must still carry the quota snapshot")
	}
}

func TestAvailableLeadsDailyLimitReached(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newLeadService(t, db)
	plan := seedPlan(t, db, 2, 20, 500)
	seedSubscription(t, db, 1, plan)
	seedLead(t, db, 100)

	today := StartOfDay(time.Now())
	weekStart := StartOfWeek(time.Now())
	yearStart := StartOfYear(time.Now())
	quota := &models.VendorQuota{
		VendorID:      1,
		DailyUsed:     2,
		WeeklyUsed:    2,
		YearlyUsed:    2,
		DailyResetAt:  &today,
		WeeklyResetAt: &weekStart,
		YearlyResetAt: &yearStart,
	}
	if err := db.Create(quota).Error; err != nil {
		t.Fatalf("seed quota: %v", err)
	}

	feed, err := svc.AvailableLeads(1, LeadFilters{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.Message != MsgDailyLimitReached {
		t.Errorf("message = %q, want %q", feed.Message, MsgDailyLimitReached)
	}
	if len(feed.Data) != 0 {
		t.Errorf("limited feed returned %d leads, want 0", len(feed.Data))
	}
}

func TestAvailableLeadsReturnsMarketplaceLeads(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newLeadService(t, db)
	plan := seedPlan(t, db, 5, 20, 500)
	seedSubscription(t, db, 1, plan)

	lead := seedLead(t, db, 100)

	// A direct proposal to another vendor must not appear in the feed.
	other := uint(9)
	proposal := seedLead(t, db, 100)
	if err := db.Model(proposal).Update("vendor_id", other).Error; err != nil {
		t.Fatalf("mark proposal: %v", err)
	}
	// A lead older than the visibility window must not appear either.
	stale := seedLead(t, db, 100)
	if err := db.Model(stale).Update("created_at", time.Now().AddDate(0, 0, -45)).Error; err != nil {
		t.Fatalf("age lead: %v", err)
	}

	feed, err := svc.AvailableLeads(1, LeadFilters{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.Message != "" {
		t.Errorf("unexpected gate message %q", feed.Message)
	}
	if len(feed.Data) != 1 || feed.Data[0].ID != lead.ID {
		t.Fatalf("feed = %d leads, want exactly the fresh marketplace lead", len(feed.Data))
	}
	if feed.Total != 1 {
		t.Errorf("total = %d, want 1", feed.Total)
	}
}

func TestAvailableLeadsUnlimitedPlan(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newLeadService(t, db)
	plan := seedPlan(t, db, 0, 0, 0) // all unlimited
	seedSubscription(t, db, 1, plan)
	seedLead(t, db, 100)

	today := StartOfDay(time.Now())
	weekStart := StartOfWeek(time.Now())
	yearStart := StartOfYear(time.Now())
	quota := &models.VendorQuota{
		VendorID:      1,
		DailyUsed:     9999,
		WeeklyUsed:    9999,
		YearlyUsed:    9999,
		DailyResetAt:  &today,
		WeeklyResetAt: &weekStart,
		YearlyResetAt: &yearStart,
	}
	if err := db.Create(quota).Error; err != nil {
		t.Fatalf("seed quota: %v", err)
	}

	feed, err := svc.AvailableLeads(1, LeadFilters{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.Message != "" {
		t.Errorf("zero limits must mean unlimited, got message %q", feed.Message)
	}
	if len(feed.Data) != 1 {
		t.Errorf("feed = %d leads, want 1", len(feed.Data))
	}
}

func TestAvailableLeadsPreferenceFilter(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newLeadService(t, db)
	plan := seedPlan(t, db, 5, 20, 500)
	seedSubscription(t, db, 1, plan)

	metals := seedLead(t, db, 100) // Category "Metals", State "Maharashtra"
	textiles := seedLead(t, db, 100)
	if err := db.Model(textiles).Updates(map[string]interface{}{
		"category": "Textiles",
		"state":    "Gujarat",
	}).Error; err != nil {
		t.Fatalf("retag lead: %v", err)
	}

	pref := &models.VendorPreference{
		VendorID:       1,
		Categories:     "Metals",
		States:         "Maharashtra",
		AutoLeadFilter: true,
	}
	if err := db.Create(pref).Error; err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	feed, err := svc.AvailableLeads(1, LeadFilters{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed.Data) != 1 || feed.Data[0].ID != metals.ID {
		t.Fatalf("filtered feed = %d leads, want only the Metals lead", len(feed.Data))
	}

	// Turning the filter off restores the full feed.
	if err := db.Model(pref).Update("auto_lead_filter", false).Error; err != nil {
		t.Fatalf("disable filter: %v", err)
	}
	feed, err = svc.AvailableLeads(1, LeadFilters{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed.Data) != 2 {
		t.Errorf("unfiltered feed = %d leads, want 2", len(feed.Data))
	}
}
