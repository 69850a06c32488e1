package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"leadmart/config"
	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/internal/service"
	"leadmart/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

// PaymentWebhookHandler completes pending payments when the provider
// confirms capture. Completion is idempotent: the guarded
// PENDING -> COMPLETED transition makes webhook redelivery a no-op.
type PaymentWebhookHandler struct {
	cfg         *config.Config
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	subRepo     *repository.SubscriptionRepository
	purchaseSvc *service.PurchaseService
	subSvc      *service.SubscriptionService
	referralSvc *service.ReferralService
	log         *logrus.Logger
}

func NewPaymentWebhookHandler(
	cfg *config.Config,
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	subRepo *repository.SubscriptionRepository,
	purchaseSvc *service.PurchaseService,
	subSvc *service.SubscriptionService,
	referralSvc *service.ReferralService,
	log *logrus.Logger,
) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		cfg:         cfg,
		db:          db,
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		purchaseSvc: purchaseSvc,
		subSvc:      subSvc,
		referralSvc: referralSvc,
		log:         log,
	}
}

// HandleStripe verifies the event signature and settles the matching
// payment. Unknown references are acknowledged with 200 so Stripe stops
// retrying; they are not our payments.
func (h *PaymentWebhookHandler) HandleStripe(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	event, err := payment.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.cfg.Stripe.WebhookSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
			return
		}
		h.settle(sess.ID)
	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err == nil {
			h.expire(sess.ID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// settle flips the payment to COMPLETED and records its downstream
// effect in one transaction, so a store failure after the status flip
// cannot strand a captured payment: the rollback leaves it PENDING and
// the next delivery retries the whole settlement.
func (h *PaymentWebhookHandler) settle(providerRef string) {
	p, err := h.paymentRepo.GetByProviderRef(providerRef)
	if err != nil || p == nil {
		return
	}
	settled := false
	err = h.db.Transaction(func(tx *gorm.DB) error {
		ok, err := h.paymentRepo.MarkCompleted(tx, p.ID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			// already settled by an earlier delivery
			return nil
		}
		settled = true

		switch p.Purpose {
		case domain.PaymentPurposeLeadPurchase:
			if _, err := h.purchaseSvc.CompletePaidPurchase(tx, p); err != nil && err != service.ErrAlreadyPurchased {
				return err
			}
		case domain.PaymentPurposeSubscription:
			if err := h.activateSubscription(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.log.WithFields(logrus.Fields{"provider_ref": providerRef, "error": err}).Error("payment settlement failed")
		return
	}
	if !settled {
		return
	}
	p.Status = domain.PaymentStatusCompleted

	// A completed payment qualifies the payer's referral, if any.
	// Best-effort: accrual failures are logged inside, never bubbled.
	h.referralSvc.QualifyAndAccrue(p.VendorID, p)
}

func (h *PaymentWebhookHandler) activateSubscription(tx *gorm.DB, p *models.Payment) error {
	if p.PlanID == nil {
		return nil
	}
	plan, err := h.subRepo.GetPlan(*p.PlanID)
	if err != nil {
		return err
	}
	_, err = h.subSvc.ActivateTx(tx, p.VendorID, plan)
	return err
}

func (h *PaymentWebhookHandler) expire(providerRef string) {
	p, err := h.paymentRepo.GetByProviderRef(providerRef)
	if err != nil || p == nil || p.Status != domain.PaymentStatusPending {
		return
	}
	if err := h.paymentRepo.MarkExpired(p.ID); err != nil {
		h.log.WithFields(logrus.Fields{"provider_ref": providerRef, "error": err}).Warn("payment expiry update failed")
	}
}
