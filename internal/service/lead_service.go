package service

import (
	"errors"
	"time"

	"leadmart/config"
	"leadmart/internal/models"
	"leadmart/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Exhausted-quota and missing-subscription outcomes are expected
// steady-state conditions, surfaced as messages, never as errors.
const (
	MsgNoActiveSubscription = "No active subscription plan. Please subscribe to view leads."
	MsgDailyLimitReached    = "Daily lead limit reached"
	MsgWeeklyLimitReached   = "Weekly lead limit reached"
	MsgYearlyLimitReached   = "Yearly lead limit reached"
)

type LeadFilters struct {
	BudgetMin int64
	BudgetMax int64
	Search    string
	Page      int
	Limit     int
}

// LeadFeed is the marketplace response: the visible lead set plus the
// quota/subscription snapshot the gate decisions were made from.
type LeadFeed struct {
	Data         []models.Lead              `json:"data"`
	Quota        *models.VendorQuota        `json:"quota"`
	Subscription *models.VendorSubscription `json:"subscription"`
	Message      string                     `json:"message,omitempty"`
	Page         int                        `json:"page"`
	Limit        int                        `json:"limit"`
	Total        int64                      `json:"total"`
}

type LeadService struct {
	cfg      *config.LeadsConfig
	leadRepo *repository.LeadRepository
	prefRepo *repository.PreferenceRepository
	quotaSvc *QuotaService
	subSvc   *SubscriptionService
	log      *logrus.Logger
	now      func() time.Time
}

func NewLeadService(
	cfg *config.LeadsConfig,
	leadRepo *repository.LeadRepository,
	prefRepo *repository.PreferenceRepository,
	quotaSvc *QuotaService,
	subSvc *SubscriptionService,
	log *logrus.Logger,
) *LeadService {
	return &LeadService{
		cfg:      cfg,
		leadRepo: leadRepo,
		prefRepo: prefRepo,
		quotaSvc: quotaSvc,
		subSvc:   subSvc,
		log:      log,
		now:      time.Now,
	}
}

// AvailableLeads runs the eligibility pipeline: quota reset, then
// subscription gate, then limit gates in daily -> weekly -> yearly
// order (first violated wins), then the actual query. Gate failures
// short-circuit with an empty feed and a human-readable message.
func (s *LeadService) AvailableLeads(vendorID uint, f LeadFilters) (*LeadFeed, error) {
	quota, err := s.quotaSvc.Snapshot(vendorID)
	if err != nil {
		return nil, err
	}

	page, limit := s.normalizePage(f.Page, f.Limit)
	feed := &LeadFeed{Data: []models.Lead{}, Quota: quota, Page: page, Limit: limit}

	sub, err := s.subSvc.ResolveActive(vendorID)
	if err != nil {
		return nil, err
	}
	feed.Subscription = sub
	if !s.subSvc.IsActive(sub) {
		feed.Message = MsgNoActiveSubscription
		return feed, nil
	}

	plan := sub.Plan
	switch {
	case limitReached(quota.DailyUsed, plan.DailyLimit):
		feed.Message = MsgDailyLimitReached
		return feed, nil
	case limitReached(quota.WeeklyUsed, plan.WeeklyLimit):
		feed.Message = MsgWeeklyLimitReached
		return feed, nil
	case limitReached(quota.YearlyUsed, plan.YearlyLimit):
		feed.Message = MsgYearlyLimitReached
		return feed, nil
	}

	query := repository.LeadQuery{
		Since:     s.now().AddDate(0, 0, -s.cfg.VisibilityWindowDays),
		BudgetMin: f.BudgetMin,
		BudgetMax: f.BudgetMax,
		Search:    f.Search,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	}

	// Preference filtering matches the lead's free-text category/state
	// columns against the vendor's saved lists when auto_lead_filter is
	// on. No preference row yet means no filtering.
	pref, err := s.prefRepo.GetByVendorID(vendorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if pref != nil && pref.AutoLeadFilter {
		query.Categories = pref.CategoryList()
		query.States = pref.StateList()
		if f.BudgetMin == 0 && pref.BudgetMinCents > 0 {
			query.BudgetMin = pref.BudgetMinCents
		}
		if f.BudgetMax == 0 && pref.BudgetMaxCents > 0 {
			query.BudgetMax = pref.BudgetMaxCents
		}
	}

	leads, total, err := s.leadRepo.Available(query)
	if err != nil {
		return nil, err
	}
	feed.Data = leads
	feed.Total = total
	return feed, nil
}

// CreateLead records a buyer requirement. Direct proposals carry the
// target vendor's id and bypass the marketplace feed.
func (s *LeadService) CreateLead(lead *models.Lead) error {
	return s.leadRepo.Create(lead)
}

func (s *LeadService) GetLead(id uint) (*models.Lead, error) {
	return s.leadRepo.GetByID(id)
}

// ProposedLeads lists leads addressed directly to the vendor.
func (s *LeadService) ProposedLeads(vendorID uint, limit, offset int) ([]models.Lead, error) {
	return s.leadRepo.ListProposedTo(vendorID, limit, offset)
}

func (s *LeadService) normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	return page, limit
}

func limitReached(used, limit int) bool {
	return limit > 0 && used >= limit
}
