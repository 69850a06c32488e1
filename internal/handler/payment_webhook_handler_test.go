package handler

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"leadmart/config"
	"leadmart/internal/database"
	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/internal/service"
	"leadmart/pkg/payment"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newWebhookTestDB(t *testing.T) *gorm.DB {
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

func newWebhookHandler(t *testing.T, db *gorm.DB) *PaymentWebhookHandler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	quotaRepo := repository.NewQuotaRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	quotaSvc := service.NewQuotaService(quotaRepo, log)
	subSvc := service.NewSubscriptionService(subRepo)
	purchaseSvc := service.NewPurchaseService(
		db,
		quotaSvc,
		subSvc,
		quotaRepo,
		repository.NewLeadRepository(db),
		repository.NewPurchaseRepository(db),
		paymentRepo,
		&payment.StubProvider{},
		log,
	)
	referralSvc := service.NewReferralService(
		db,
		&config.ReferralConfig{CommissionPercent: 10, MinCashoutCents: 50000},
		repository.NewReferralRepository(db),
		repository.NewWalletRepository(db),
		repository.NewCashoutRepository(db),
		repository.NewBankDetailRepository(db),
		log,
	)
	return NewPaymentWebhookHandler(&config.Config{}, db, paymentRepo, subRepo, purchaseSvc, subSvc, referralSvc, log)
}

func seedPendingPayment(t *testing.T, db *gorm.DB, p *models.Payment) *models.Payment {
	t.Helper()
	p.Status = domain.PaymentStatusPending
	p.Provider = "stripe"
	if p.IdempotencyKey == "" {
		p.IdempotencyKey = fmt.Sprintf("key-%s-%s", t.Name(), p.ProviderRef)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func TestSettleCreatesPurchaseOnce(t *testing.T) {
	t.Parallel()
	db := newWebhookTestDB(t)
	h := newWebhookHandler(t, db)
	leadID := uint(7)
	seedPendingPayment(t, db, &models.Payment{
		VendorID:    1,
		AmountCents: 9900,
		Purpose:     domain.PaymentPurposeLeadPurchase,
		LeadID:      &leadID,
		ProviderRef: "cs_settle_once",
	})

	h.settle("cs_settle_once")
	h.settle("cs_settle_once") // redelivery

	var p models.Payment
	if err := db.Where("provider_ref = ?", "cs_settle_once").First(&p).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if p.Status != domain.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want COMPLETED", p.Status)
	}
	var count int64
	db.Model(&models.LeadPurchase{}).Where("vendor_id = ? AND lead_id = ?", 1, leadID).Count(&count)
	if count != 1 {
		t.Errorf("%d purchase rows after two deliveries, want 1", count)
	}
}

func TestSettleActivatesSubscription(t *testing.T) {
	t.Parallel()
	db := newWebhookTestDB(t)
	h := newWebhookHandler(t, db)
	plan := &models.Plan{Name: "starter", DailyLimit: 5, WeeklyLimit: 20, YearlyLimit: 500, PriceCents: 100000, DurationDays: 30, IsActive: true}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	seedPendingPayment(t, db, &models.Payment{
		VendorID:    2,
		AmountCents: plan.PriceCents,
		Purpose:     domain.PaymentPurposeSubscription,
		PlanID:      &plan.ID,
		ProviderRef: "cs_sub",
	})

	h.settle("cs_sub")

	var sub models.VendorSubscription
	if err := db.Where("vendor_id = ?", 2).First(&sub).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.Status != domain.SubscriptionStatusActive || sub.PlanID != plan.ID {
		t.Errorf("subscription = %q plan %d, want ACTIVE plan %d", sub.Status, sub.PlanID, plan.ID)
	}
	if sub.EndDate == nil || time.Until(*sub.EndDate) < 29*24*time.Hour {
		t.Errorf("end date = %v, want ~30 days out", sub.EndDate)
	}
}

func TestSettleRollsBackWhenEffectFails(t *testing.T) {
	t.Parallel()
	db := newWebhookTestDB(t)
	h := newWebhookHandler(t, db)
	// A lead-purchase payment with no lead reference cannot be
	// recorded; the completion flip must roll back with it so the
	// provider's next delivery retries the whole settlement.
	seedPendingPayment(t, db, &models.Payment{
		VendorID:    3,
		AmountCents: 9900,
		Purpose:     domain.PaymentPurposeLeadPurchase,
		ProviderRef: "cs_broken",
	})

	h.settle("cs_broken")

	var p models.Payment
	if err := db.Where("provider_ref = ?", "cs_broken").First(&p).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if p.Status != domain.PaymentStatusPending {
		t.Errorf("payment status = %q, want PENDING after rollback", p.Status)
	}
	var count int64
	db.Model(&models.LeadPurchase{}).Count(&count)
	if count != 0 {
		t.Errorf("%d purchase rows written, want 0", count)
	}
}
