package handler

import (
	"net/http"

	"leadmart/internal/middleware"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
)

type QuotaHandler struct {
	quotaSvc *service.QuotaService
	subSvc   *service.SubscriptionService
}

func NewQuotaHandler(quotaSvc *service.QuotaService, subSvc *service.SubscriptionService) *QuotaHandler {
	return &QuotaHandler{quotaSvc: quotaSvc, subSvc: subSvc}
}

// Current returns the vendor's post-reset usage counters alongside the
// active plan limits so clients can render remaining headroom.
func (h *QuotaHandler) Current(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	quota, err := h.quotaSvc.Snapshot(vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load quota"})
		return
	}
	resp := gin.H{"quota": quota}
	sub, err := h.subSvc.ResolveActive(vendorID)
	if err == nil && h.subSvc.IsActive(sub) {
		resp["plan"] = sub.Plan
	}
	c.JSON(http.StatusOK, resp)
}
