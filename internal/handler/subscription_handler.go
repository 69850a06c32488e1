package handler

import (
	"errors"
	"fmt"
	"net/http"

	"leadmart/config"
	"leadmart/internal/domain"
	"leadmart/internal/middleware"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/internal/service"
	"leadmart/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	cfg         *config.Config
	subSvc      *service.SubscriptionService
	subRepo     *repository.SubscriptionRepository
	paymentRepo *repository.PaymentRepository
	provider    payment.Provider
	log         *logrus.Logger
}

func NewSubscriptionHandler(
	cfg *config.Config,
	subSvc *service.SubscriptionService,
	subRepo *repository.SubscriptionRepository,
	paymentRepo *repository.PaymentRepository,
	provider payment.Provider,
	log *logrus.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		cfg:         cfg,
		subSvc:      subSvc,
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		provider:    provider,
		log:         log,
	}
}

// Plans lists the active plan catalog. Public endpoint.
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	plans, err := h.subSvc.Plans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

// Current returns the vendor's active subscription with days left, or
// an empty body when none is active.
func (h *SubscriptionHandler) Current(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	sub, err := h.subSvc.ResolveActive(vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load subscription"})
		return
	}
	if !h.subSvc.IsActive(sub) {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}
	daysLeft := 0
	if sub.EndDate != nil {
		daysLeft = h.subSvc.DaysLeft(*sub.EndDate)
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub, "days_left": daysLeft})
}

type SubscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

// Subscribe starts a provider checkout for the chosen plan. The price is
// read from the catalog, never from the client. Activation happens when
// the provider webhook confirms payment; free plans activate directly.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, err := h.subRepo.GetPlan(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load plan"})
		return
	}
	if !plan.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}

	if plan.PriceCents == 0 {
		sub, err := h.subSvc.Activate(vendorID, plan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not activate plan"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"subscription": sub})
		return
	}

	orderID := fmt.Sprintf("sub-%s", uuid.New().String())
	resp, err := h.provider.InitiateCheckout(payment.CheckoutRequest{
		VendorID:       vendorID,
		AmountCents:    plan.PriceCents,
		Currency:       h.cfg.Stripe.Currency,
		OrderID:        orderID,
		IdempotencyKey: orderID,
		Description:    fmt.Sprintf("%s plan subscription", plan.Name),
	})
	if err != nil {
		h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "plan_id": plan.ID, "error": err}).Error("subscription checkout failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	}

	planID := plan.ID
	p := &models.Payment{
		VendorID:       vendorID,
		AmountCents:    plan.PriceCents,
		Currency:       h.cfg.Stripe.Currency,
		Provider:       h.provider.Name(),
		ProviderRef:    resp.Reference,
		Status:         domain.PaymentStatusPending,
		Purpose:        domain.PaymentPurposeSubscription,
		PlanID:         &planID,
		IdempotencyKey: orderID,
		ExpiresAt:      resp.ExpiresAt,
	}
	if err := h.paymentRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record payment"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"payment":      p,
		"checkout_url": resp.CheckoutURL,
		"reference":    resp.Reference,
	})
}
