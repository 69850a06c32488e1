package handler

import (
	"net/http"

	"leadmart/internal/middleware"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReferralHandler struct {
	svc      *service.ReferralService
	bankRepo *repository.BankDetailRepository
	log      *logrus.Logger
}

func NewReferralHandler(svc *service.ReferralService, bankRepo *repository.BankDetailRepository, log *logrus.Logger) *ReferralHandler {
	return &ReferralHandler{svc: svc, bankRepo: bankRepo, log: log}
}

// Overview returns the referral dashboard: code, wallet balances,
// recent referrals and the ledger tail.
func (h *ReferralHandler) Overview(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	overview, err := h.svc.Overview(vendorID)
	if err != nil {
		h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "error": err}).Error("referral overview failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load referral overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

type LinkReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// Link attaches the authenticated vendor to a referrer's code.
func (h *ReferralHandler) Link(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	var req LinkReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := h.svc.Link(vendorID, req.Code)
	if err != nil {
		switch err {
		case service.ErrInvalidReferral:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrAlreadyReferred:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "error": err}).Error("referral link failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not link referral"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"referral": ref})
}

// Cashouts lists the vendor's cashout history.
func (h *ReferralHandler) Cashouts(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	limit, offset := pageParams(c)
	cashouts, err := h.svc.Cashouts(vendorID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cashouts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cashouts})
}

type CashoutRequestBody struct {
	AmountCents  int64  `json:"amount_cents" binding:"required,min=1"`
	BankDetailID uint   `json:"bank_detail_id" binding:"required"`
	Note         string `json:"note" binding:"max=255"`
}

// RequestCashout reserves available balance for a payout.
func (h *ReferralHandler) RequestCashout(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	var req CashoutRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cashout, err := h.svc.RequestCashout(vendorID, req.AmountCents, req.BankDetailID, req.Note)
	if err != nil {
		switch err {
		case service.ErrCashoutTooSmall, service.ErrBankDetailInvalid:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case repository.ErrInsufficientBalance:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "error": err}).Error("cashout request failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not request cashout"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cashout": cashout})
}

type BankDetailRequest struct {
	AccountName   string `json:"account_name" binding:"required,max=128"`
	AccountNumber string `json:"account_number" binding:"required,max=32"`
	IFSC          string `json:"ifsc" binding:"required,max=16"`
	BankName      string `json:"bank_name" binding:"max=128"`
}

// AddBankDetail saves a payout destination.
func (h *ReferralHandler) AddBankDetail(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	var req BankDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	detail := &models.BankDetail{
		VendorID:      vendorID,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		BankName:      req.BankName,
	}
	if err := h.bankRepo.Create(detail); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save bank detail"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bank_detail": detail})
}

// BankDetails lists the vendor's payout destinations.
func (h *ReferralHandler) BankDetails(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	details, err := h.bankRepo.ListByVendor(vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load bank details"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": details})
}
