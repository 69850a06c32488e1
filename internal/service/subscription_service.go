package service

import (
	"errors"
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"

	"gorm.io/gorm"
)

// SubscriptionService resolves a vendor's authoritative subscription.
// The stored status column is not trusted on its own: an ACTIVE row
// whose end date has passed is reported inactive without being
// transitioned, so every caller must go through IsActive.
type SubscriptionService struct {
	subRepo *repository.SubscriptionRepository
	now     func() time.Time
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, now: time.Now}
}

// ResolveActive returns the vendor's first ACTIVE subscription with its
// plan loaded, or nil when the vendor has none. The ACTIVE filter is
// applied client-side: the store is not assumed to enforce uniqueness.
func (s *SubscriptionService) ResolveActive(vendorID uint) (*models.VendorSubscription, error) {
	subs, err := s.subRepo.ListByVendorID(vendorID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].Status != domain.SubscriptionStatusActive {
			continue
		}
		sub := subs[i]
		plan, err := s.subRepo.GetPlan(sub.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// dangling plan reference; skip rather than fail the read
				continue
			}
			return nil, err
		}
		sub.Plan = *plan
		return &sub, nil
	}
	return nil, nil
}

// IsActive reports whether the subscription grants access right now.
// False for nil or non-ACTIVE rows; true for ACTIVE rows with no end
// date; otherwise true iff at least one day is left.
func (s *SubscriptionService) IsActive(sub *models.VendorSubscription) bool {
	if sub == nil || sub.Status != domain.SubscriptionStatusActive {
		return false
	}
	if sub.EndDate == nil {
		return true
	}
	return s.DaysLeft(*sub.EndDate) > 0
}

// DaysLeft is ceil((end - now) / 1 day), floored at 0.
func (s *SubscriptionService) DaysLeft(end time.Time) int {
	remaining := end.Sub(s.now())
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Plans lists the purchasable plan catalog.
func (s *SubscriptionService) Plans() ([]models.Plan, error) {
	return s.subRepo.ListPlans()
}

// Activate creates a new ACTIVE subscription for the plan, running
// start to start + plan duration.
func (s *SubscriptionService) Activate(vendorID uint, plan *models.Plan) (*models.VendorSubscription, error) {
	sub := s.newSubscription(vendorID, plan)
	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}
	sub.Plan = *plan
	return sub, nil
}

// ActivateTx is Activate running inside the caller's transaction, for
// flows that must commit the subscription together with its payment.
func (s *SubscriptionService) ActivateTx(tx *gorm.DB, vendorID uint, plan *models.Plan) (*models.VendorSubscription, error) {
	sub := s.newSubscription(vendorID, plan)
	if err := tx.Create(sub).Error; err != nil {
		return nil, err
	}
	sub.Plan = *plan
	return sub, nil
}

func (s *SubscriptionService) newSubscription(vendorID uint, plan *models.Plan) *models.VendorSubscription {
	start := s.now()
	end := start.AddDate(0, 0, plan.DurationDays)
	return &models.VendorSubscription{
		VendorID:  vendorID,
		PlanID:    plan.ID,
		Status:    domain.SubscriptionStatusActive,
		StartDate: start,
		EndDate:   &end,
	}
}
