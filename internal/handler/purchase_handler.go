package handler

import (
	"net/http"
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/middleware"
	"leadmart/internal/repository"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PurchaseHandler struct {
	svc          *service.PurchaseService
	purchaseRepo *repository.PurchaseRepository
	contactRepo  *repository.ContactRepository
	log          *logrus.Logger
}

func NewPurchaseHandler(
	svc *service.PurchaseService,
	purchaseRepo *repository.PurchaseRepository,
	contactRepo *repository.ContactRepository,
	log *logrus.Logger,
) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, purchaseRepo: purchaseRepo, contactRepo: contactRepo, log: log}
}

type PurchaseRequest struct {
	Mode        string `json:"mode" binding:"omitempty,oneof=AUTO USE_WEEKLY BUY_EXTRA PAID"`
	AmountCents int64  `json:"amount_cents"` // required for BUY_EXTRA / PAID
}

// Purchase buys a lead. Quota modes settle synchronously; paid modes
// return a provider checkout URL and settle through the webhook.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.PurchaseModeAuto
	}

	if mode == domain.PurchaseModeBuyExtra || mode == domain.PurchaseModePaid {
		p, checkout, err := h.svc.InitiatePaidPurchase(vendorID, leadID, req.AmountCents)
		if err != nil {
			h.renderPurchaseError(c, vendorID, leadID, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"payment":      p,
			"checkout_url": checkout.CheckoutURL,
			"reference":    checkout.Reference,
		})
		return
	}

	result, err := h.svc.Purchase(vendorID, leadID, mode)
	if err != nil {
		h.renderPurchaseError(c, vendorID, leadID, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PurchaseHandler) renderPurchaseError(c *gin.Context, vendorID, leadID uint, err error) {
	switch err {
	case service.ErrAlreadyPurchased:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.ErrQuotaExhausted:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.ErrNoSubscription:
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case service.ErrLeadUnavailable:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case service.ErrPaymentRequired, service.ErrUnknownPurchaseMode:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "lead_id": leadID, "error": err}).Error("purchase failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
	}
}

// Purchased lists the vendor's bought leads, contact fields included.
func (h *PurchaseHandler) Purchased(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	limit, offset := pageParams(c)
	purchases, total, err := h.purchaseRepo.ListByVendor(vendorID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": purchases, "total": total})
}

// Stats summarizes the vendor's purchasing activity over trailing
// windows plus a contacted-to-converted rate.
func (h *PurchaseHandler) Stats(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	now := time.Now()

	today, err := h.purchaseRepo.CountSince(vendorID, service.StartOfDay(now))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	week, _ := h.purchaseRepo.CountSince(vendorID, now.AddDate(0, 0, -7))
	year, _ := h.purchaseRepo.CountSince(vendorID, now.AddDate(-1, 0, 0))
	spend, _ := h.purchaseRepo.TotalSpendSince(vendorID, now.AddDate(-1, 0, 0))
	converted, _ := h.contactRepo.CountConvertedSince(vendorID, now.AddDate(-1, 0, 0))

	rate := 0.0
	if year > 0 {
		rate = float64(converted) / float64(year)
	}
	c.JSON(http.StatusOK, gin.H{
		"purchased_today":   today,
		"purchased_7d":      week,
		"purchased_365d":    year,
		"total_spend_cents": spend,
		"converted_365d":    converted,
		"conversion_rate":   rate,
	})
}
