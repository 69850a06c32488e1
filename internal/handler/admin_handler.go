package handler

import (
	"net/http"

	"leadmart/internal/repository"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler groups the privileged back-office operations. All routes
// sit behind AdminRequired.
type AdminHandler struct {
	authSvc      *service.AuthService
	referralSvc  *service.ReferralService
	migrationSvc *service.MigrationService
	log          *logrus.Logger
}

func NewAdminHandler(
	authSvc *service.AuthService,
	referralSvc *service.ReferralService,
	migrationSvc *service.MigrationService,
	log *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		authSvc:      authSvc,
		referralSvc:  referralSvc,
		migrationSvc: migrationSvc,
		log:          log,
	}
}

type ResetPasswordRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword replaces a user's password outright.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authSvc.ResetPassword(req.UserID, req.NewPassword); err != nil {
		h.log.WithFields(logrus.Fields{"user_id": req.UserID, "error": err}).Error("admin password reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset password"})
		return
	}
	h.log.WithField("user_id", req.UserID).Info("admin password reset")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ApproveCashout settles a pending cashout: reserved funds leave the
// wallet for good. Safe to retry; a second call finds the request
// already processed.
func (h *AdminHandler) ApproveCashout(c *gin.Context) {
	cashoutID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cashout id"})
		return
	}
	cashout, err := h.referralSvc.ApproveCashout(cashoutID)
	if err != nil {
		h.renderCashoutError(c, cashoutID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cashout": cashout})
}

// RejectCashout returns the reserved funds to the available balance.
func (h *AdminHandler) RejectCashout(c *gin.Context) {
	cashoutID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cashout id"})
		return
	}
	cashout, err := h.referralSvc.RejectCashout(cashoutID)
	if err != nil {
		h.renderCashoutError(c, cashoutID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cashout": cashout})
}

func (h *AdminHandler) renderCashoutError(c *gin.Context, cashoutID uint, err error) {
	if err == service.ErrCashoutNotPending {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.log.WithFields(logrus.Fields{"cashout_id": cashoutID, "error": err}).Error("cashout processing failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process cashout"})
}

type MatureRequest struct {
	VendorID    uint  `json:"vendor_id" binding:"required"`
	AmountCents int64 `json:"amount_cents" binding:"required,min=1"`
}

// MatureReferralEarnings moves a vendor's pending referral balance to
// available once the hold period has passed.
func (h *AdminHandler) MatureReferralEarnings(c *gin.Context) {
	var req MatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.referralSvc.Mature(req.VendorID, req.AmountCents); err != nil {
		if err == repository.ErrInsufficientBalance {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.WithFields(logrus.Fields{"vendor_id": req.VendorID, "error": err}).Error("referral maturation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mature earnings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type MigrateVendorRequest struct {
	OldVendorID uint `json:"old_vendor_id" binding:"required"`
	NewVendorID uint `json:"new_vendor_id" binding:"required"`
}

// MigrateVendor re-keys all of a vendor's rows onto a new account in a
// single transaction.
func (h *AdminHandler) MigrateVendor(c *gin.Context) {
	var req MigrateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OldVendorID == req.NewVendorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old and new vendor ids are the same"})
		return
	}
	if err := h.migrationSvc.MigrateVendor(req.OldVendorID, req.NewVendorID); err != nil {
		if err == service.ErrMigrationConflict {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.WithFields(logrus.Fields{
			"old_vendor_id": req.OldVendorID,
			"new_vendor_id": req.NewVendorID,
			"error":         err,
		}).Error("vendor migration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "migration failed"})
		return
	}
	h.log.WithFields(logrus.Fields{
		"old_vendor_id": req.OldVendorID,
		"new_vendor_id": req.NewVendorID,
	}).Info("vendor migrated")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
