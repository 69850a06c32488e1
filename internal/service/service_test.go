package service

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"leadmart/internal/database"
	"leadmart/internal/domain"
	"leadmart/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database with the full
// schema. cache=shared keeps the database alive across the pool's
// connections; capping the pool at one connection keeps transaction
// semantics deterministic.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seedPlan(t *testing.T, db *gorm.DB, daily, weekly, yearly int) *models.Plan {
	t.Helper()
	plan := &models.Plan{
		Name:         fmt.Sprintf("plan-%d-%d-%d", daily, weekly, yearly),
		DailyLimit:   daily,
		WeeklyLimit:  weekly,
		YearlyLimit:  yearly,
		PriceCents:   100000,
		DurationDays: 30,
		IsActive:     true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func seedSubscription(t *testing.T, db *gorm.DB, vendorID uint, plan *models.Plan) *models.VendorSubscription {
	t.Helper()
	end := time.Now().AddDate(0, 0, plan.DurationDays)
	sub := &models.VendorSubscription{
		VendorID:  vendorID,
		PlanID:    plan.ID,
		Status:    domain.SubscriptionStatusActive,
		StartDate: time.Now(),
		EndDate:   &end,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return sub
}

func seedLead(t *testing.T, db *gorm.DB, buyerID uint) *models.Lead {
	t.Helper()
	lead := &models.Lead{
		BuyerID:     buyerID,
		Title:       "Bulk steel pipes",
		ProductName: "Steel pipe 2in",
		Category:    "Metals",
		BudgetCents: 2500000,
		Quantity:    500,
		Unit:        "pcs",
		State:       "Maharashtra",
		City:        "Mumbai",
		Status:      domain.LeadStatusAvailable,
		BuyerName:   "Asha Traders",
		BuyerEmail:  "asha@example.com",
		BuyerPhone:  "+919800000001",
	}
	if err := db.Create(lead).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return lead
}
