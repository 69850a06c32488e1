package handler

import (
	"net/http"
	"strconv"

	"leadmart/internal/domain"
	"leadmart/internal/middleware"
	"leadmart/internal/models"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type LeadHandler struct {
	leadSvc     *service.LeadService
	purchaseSvc *service.PurchaseService
	log         *logrus.Logger
}

func NewLeadHandler(leadSvc *service.LeadService, purchaseSvc *service.PurchaseService, log *logrus.Logger) *LeadHandler {
	return &LeadHandler{leadSvc: leadSvc, purchaseSvc: purchaseSvc, log: log}
}

// Feed returns the marketplace feed for the authenticated vendor. Gate
// outcomes (no subscription, exhausted quota) arrive as an empty data
// set with a message, not as an error status.
func (h *LeadHandler) Feed(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	f := service.LeadFilters{
		Search: c.Query("search"),
	}
	f.BudgetMin, _ = strconv.ParseInt(c.Query("budget_min"), 10, 64)
	f.BudgetMax, _ = strconv.ParseInt(c.Query("budget_max"), 10, 64)
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	feed, err := h.leadSvc.AvailableLeads(vendorID, f)
	if err != nil {
		h.log.WithFields(logrus.Fields{"vendor_id": vendorID, "error": err}).Error("lead feed failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load leads"})
		return
	}
	// Contact fields stay hidden until the lead is purchased.
	for i := range feed.Data {
		feed.Data[i] = feed.Data[i].Masked()
	}
	c.JSON(http.StatusOK, feed)
}

type CreateLeadRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	ProductName string `json:"product_name" binding:"required,max=255"`
	Category    string `json:"category" binding:"max=128"`
	Description string `json:"description"`
	BudgetCents int64  `json:"budget_cents" binding:"min=0"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit" binding:"max=32"`
	State       string `json:"state" binding:"max=64"`
	City        string `json:"city" binding:"max=64"`
	BuyerName   string `json:"buyer_name" binding:"required,max=128"`
	BuyerEmail  string `json:"buyer_email" binding:"required,email"`
	BuyerPhone  string `json:"buyer_phone" binding:"required,max=20"`
	VendorID    *uint  `json:"vendor_id"` // optional: propose directly to one vendor
}

// Create registers a buyer requirement.
func (h *LeadHandler) Create(c *gin.Context) {
	buyerID := middleware.GetUserID(c)
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	lead := &models.Lead{
		BuyerID:     buyerID,
		VendorID:    req.VendorID,
		Title:       req.Title,
		ProductName: req.ProductName,
		Category:    req.Category,
		Description: req.Description,
		BudgetCents: req.BudgetCents,
		Quantity:    quantity,
		Unit:        req.Unit,
		State:       req.State,
		City:        req.City,
		Status:      domain.LeadStatusAvailable,
		BuyerName:   req.BuyerName,
		BuyerEmail:  req.BuyerEmail,
		BuyerPhone:  req.BuyerPhone,
	}
	if err := h.leadSvc.CreateLead(lead); err != nil {
		h.log.WithFields(logrus.Fields{"buyer_id": buyerID, "error": err}).Error("lead create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create lead"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lead": lead})
}

// Detail returns a single lead. Buyer contact fields are included only
// for the lead's owner, a vendor it was proposed to, or a vendor that
// has purchased it.
func (h *LeadHandler) Detail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	lead, err := h.leadSvc.GetLead(leadID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	if lead.BuyerID == userID || middleware.GetRole(c) == domain.RoleAdmin {
		c.JSON(http.StatusOK, gin.H{"lead": lead})
		return
	}
	ok, err := h.purchaseSvc.HasAccess(userID, lead)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load lead"})
		return
	}
	if !ok {
		masked := lead.Masked()
		c.JSON(http.StatusOK, gin.H{"lead": masked})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// Proposed lists leads addressed directly to the authenticated vendor.
func (h *LeadHandler) Proposed(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	limit, offset := pageParams(c)
	leads, err := h.leadSvc.ProposedLeads(vendorID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load leads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leads})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id), err
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
