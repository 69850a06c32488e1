package handler

import (
	"net/http"

	"leadmart/internal/middleware"
	"leadmart/internal/repository"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ContactHandler struct {
	svc         *service.ContactService
	contactRepo *repository.ContactRepository
	log         *logrus.Logger
}

func NewContactHandler(svc *service.ContactService, contactRepo *repository.ContactRepository, log *logrus.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, contactRepo: contactRepo, log: log}
}

type LogContactRequest struct {
	ContactType string `json:"contact_type" binding:"required,oneof=CALL WHATSAPP EMAIL"`
	Notes       string `json:"notes"`
}

// Log records a contact attempt on a purchased lead. Contact logging is
// allowed past quota limits; it counts usage but never blocks.
func (h *ContactHandler) Log(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	var req LogContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact, err := h.svc.Log(vendorID, leadID, req.ContactType, req.Notes)
	if err != nil {
		if err == service.ErrNotPurchased {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "lead_id": leadID, "error": err}).Error("contact log failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log contact"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// History lists the vendor's contact attempts for one lead.
func (h *ContactHandler) History(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	contacts, err := h.contactRepo.ListByVendorLead(vendorID, leadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load contacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

type UpdateContactStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONTACTED CONVERTED"`
}

// UpdateStatus moves a contact record through its follow-up states.
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}
	var req UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact, err := h.svc.UpdateStatus(vendorID, contactID, req.Status)
	if err != nil {
		if err == service.ErrNotPurchased {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your contact record"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}
