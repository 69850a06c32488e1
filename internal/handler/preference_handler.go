package handler

import (
	"errors"
	"net/http"

	"leadmart/internal/middleware"
	"leadmart/internal/models"
	"leadmart/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PreferenceHandler struct {
	prefRepo *repository.PreferenceRepository
}

func NewPreferenceHandler(prefRepo *repository.PreferenceRepository) *PreferenceHandler {
	return &PreferenceHandler{prefRepo: prefRepo}
}

// Get returns the vendor's saved lead preferences, defaults when none
// have been saved yet.
func (h *PreferenceHandler) Get(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	pref, err := h.prefRepo.GetByVendorID(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"preference": models.VendorPreference{VendorID: vendorID}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preference": pref})
}

type SavePreferenceRequest struct {
	Categories     string `json:"categories" binding:"max=512"`
	States         string `json:"states" binding:"max=512"`
	Cities         string `json:"cities" binding:"max=512"`
	BudgetMinCents int64  `json:"budget_min_cents" binding:"min=0"`
	BudgetMaxCents int64  `json:"budget_max_cents" binding:"min=0"`
	AutoLeadFilter bool   `json:"auto_lead_filter"`
}

// Save upserts the vendor's lead preferences.
func (h *PreferenceHandler) Save(c *gin.Context) {
	vendorID := middleware.GetUserID(c)
	var req SavePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BudgetMaxCents > 0 && req.BudgetMaxCents < req.BudgetMinCents {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget_max_cents below budget_min_cents"})
		return
	}
	pref := &models.VendorPreference{
		VendorID:       vendorID,
		Categories:     req.Categories,
		States:         req.States,
		Cities:         req.Cities,
		BudgetMinCents: req.BudgetMinCents,
		BudgetMaxCents: req.BudgetMaxCents,
		AutoLeadFilter: req.AutoLeadFilter,
	}
	if err := h.prefRepo.Upsert(pref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preference": pref})
}
