package service

import (
	"errors"
	"fmt"
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/pkg/payment"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPurchased    = errors.New("lead already purchased")
	ErrLeadUnavailable     = errors.New("lead is not available")
	ErrNoSubscription      = errors.New("no active subscription")
	ErrQuotaExhausted      = errors.New("lead quota exhausted")
	ErrPaymentRequired     = errors.New("payment required for this purchase mode")
	ErrUnknownPurchaseMode = errors.New("unknown purchase mode")
)

// PurchaseResult is the server-validated outcome: the immutable
// purchase row plus the quota/subscription snapshot after the decrement.
type PurchaseResult struct {
	Purchase     *models.LeadPurchase       `json:"purchase"`
	Quota        *models.VendorQuota        `json:"quota"`
	Subscription *models.VendorSubscription `json:"subscription"`
}

// PurchaseService is the trusted boundary for converting quota or money
// into an unlocked lead. The quota check and decrement, the uniqueness
// check and the purchase insert all run in one database transaction, so
// concurrent attempts from the same vendor serialize on the store, not
// on client-side reads.
type PurchaseService struct {
	db           *gorm.DB
	quotaSvc     *QuotaService
	subSvc       *SubscriptionService
	quotaRepo    *repository.QuotaRepository
	leadRepo     *repository.LeadRepository
	purchaseRepo *repository.PurchaseRepository
	paymentRepo  *repository.PaymentRepository
	provider     payment.Provider
	log          *logrus.Logger
	now          func() time.Time
}

func NewPurchaseService(
	db *gorm.DB,
	quotaSvc *QuotaService,
	subSvc *SubscriptionService,
	quotaRepo *repository.QuotaRepository,
	leadRepo *repository.LeadRepository,
	purchaseRepo *repository.PurchaseRepository,
	paymentRepo *repository.PaymentRepository,
	provider payment.Provider,
	log *logrus.Logger,
) *PurchaseService {
	return &PurchaseService{
		db:           db,
		quotaSvc:     quotaSvc,
		subSvc:       subSvc,
		quotaRepo:    quotaRepo,
		leadRepo:     leadRepo,
		purchaseRepo: purchaseRepo,
		paymentRepo:  paymentRepo,
		provider:     provider,
		log:          log,
		now:          time.Now,
	}
}

// Purchase executes a quota-funded purchase (AUTO, USE_WEEKLY). AUTO
// consumes daily headroom first and falls back to weekly; when both are
// exhausted it returns ErrQuotaExhausted so the caller can offer the
// paid flow. PAID and BUY_EXTRA go through InitiatePaidPurchase.
func (s *PurchaseService) Purchase(vendorID, leadID uint, mode string) (*PurchaseResult, error) {
	switch mode {
	case domain.PurchaseModeAuto, domain.PurchaseModeUseWeekly:
	case domain.PurchaseModePaid, domain.PurchaseModeBuyExtra:
		return nil, ErrPaymentRequired
	default:
		return nil, ErrUnknownPurchaseMode
	}

	// Snapshot runs the lazy reset so the guarded consume below sees
	// current counters; the returned values themselves are advisory.
	if _, err := s.quotaSvc.Snapshot(vendorID); err != nil {
		return nil, err
	}

	sub, err := s.subSvc.ResolveActive(vendorID)
	if err != nil {
		return nil, err
	}
	if !s.subSvc.IsActive(sub) {
		return nil, ErrNoSubscription
	}
	plan := sub.Plan

	lead, err := s.leadRepo.GetByID(leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadUnavailable
		}
		return nil, err
	}
	if lead.Status != domain.LeadStatusAvailable {
		return nil, ErrLeadUnavailable
	}

	var purchase *models.LeadPurchase
	err = s.db.Transaction(func(tx *gorm.DB) error {
		guards := []repository.PeriodGuard{}
		switch mode {
		case domain.PurchaseModeAuto:
			guards = append(guards,
				repository.PeriodGuard{Period: repository.PeriodDaily, Limit: plan.DailyLimit},
				repository.PeriodGuard{Period: repository.PeriodWeekly, Limit: plan.WeeklyLimit},
			)
		case domain.PurchaseModeUseWeekly:
			guards = append(guards,
				repository.PeriodGuard{Period: repository.PeriodWeekly, Limit: plan.WeeklyLimit},
			)
		}

		consumed := false
		for _, g := range guards {
			ok, err := s.quotaRepo.ConsumeUnit(tx, vendorID, g, plan.YearlyLimit)
			if err != nil {
				return err
			}
			if ok {
				consumed = true
				break
			}
		}
		if !consumed {
			return ErrQuotaExhausted
		}

		purchase = &models.LeadPurchase{
			VendorID:     vendorID,
			LeadID:       leadID,
			PurchaseDate: s.now(),
			AmountCents:  0,
			Mode:         mode,
		}
		if err := tx.Create(purchase).Error; err != nil {
			// The unique (vendor_id, lead_id) index is the double-spend
			// backstop; a duplicate insert rolls the consume back.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPurchased
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read outside the transaction for the response snapshot.
	quota, qErr := s.quotaRepo.GetByVendorID(vendorID)
	if qErr != nil {
		s.log.WithError(qErr).Warn("quota snapshot reload failed after purchase")
	}
	return &PurchaseResult{Purchase: purchase, Quota: quota, Subscription: sub}, nil
}

// InitiatePaidPurchase starts the provider checkout for BUY_EXTRA/PAID
// purchases. The purchase row is only created when the provider webhook
// confirms the payment (CompletePaidPurchase).
func (s *PurchaseService) InitiatePaidPurchase(vendorID, leadID uint, amountCents int64) (*models.Payment, *payment.CheckoutResponse, error) {
	if amountCents <= 0 {
		return nil, nil, ErrPaymentRequired
	}
	lead, err := s.leadRepo.GetByID(leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrLeadUnavailable
		}
		return nil, nil, err
	}
	if lead.Status != domain.LeadStatusAvailable {
		return nil, nil, ErrLeadUnavailable
	}

	// One idempotency key per (vendor, lead) so a double-submitted
	// checkout cannot charge twice.
	idemKey := fmt.Sprintf("lead-%d-%d", vendorID, leadID)
	orderID := fmt.Sprintf("lp-%s", uuid.New().String())
	resp, err := s.provider.InitiateCheckout(payment.CheckoutRequest{
		VendorID:       vendorID,
		AmountCents:    amountCents,
		OrderID:        orderID,
		IdempotencyKey: idemKey,
		Description:    fmt.Sprintf("Lead purchase #%d", leadID),
	})
	if err != nil {
		return nil, nil, err
	}

	lid := leadID
	p := &models.Payment{
		VendorID:       vendorID,
		AmountCents:    amountCents,
		Provider:       s.provider.Name(),
		ProviderRef:    resp.Reference,
		Status:         domain.PaymentStatusPending,
		Purpose:        domain.PaymentPurposeLeadPurchase,
		LeadID:         &lid,
		IdempotencyKey: idemKey,
		ExpiresAt:      resp.ExpiresAt,
	}
	if err := s.paymentRepo.Create(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAlreadyPurchased
		}
		return nil, nil, err
	}
	return p, resp, nil
}

// CompletePaidPurchase records the purchase once the provider confirmed
// payment capture, inside the caller's settlement transaction. Paid
// purchases do not consume quota.
func (s *PurchaseService) CompletePaidPurchase(tx *gorm.DB, p *models.Payment) (*models.LeadPurchase, error) {
	if p.LeadID == nil {
		return nil, ErrLeadUnavailable
	}
	purchase := &models.LeadPurchase{
		VendorID:     p.VendorID,
		LeadID:       *p.LeadID,
		PurchaseDate: s.now(),
		AmountCents:  p.AmountCents,
		Mode:         domain.PurchaseModePaid,
	}
	if err := tx.Create(purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}
	return purchase, nil
}

// HasAccess reports whether the vendor can see the lead's buyer contact
// fields: either the lead was proposed to them directly or they hold a
// purchase.
func (s *PurchaseService) HasAccess(vendorID uint, lead *models.Lead) (bool, error) {
	if lead.VendorID != nil && *lead.VendorID == vendorID {
		return true, nil
	}
	return s.purchaseRepo.Exists(vendorID, lead.ID)
}
