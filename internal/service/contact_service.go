package service

import (
	"errors"
	"time"

	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"
	"leadmart/internal/ws"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotPurchased = errors.New("lead not purchased")

// ContactService records outreach against a purchased or owned lead.
// Contact logging is never blocked by quota exhaustion: exhaustion only
// gates lead visibility, not post-purchase follow-up, so the usage
// counters are incremented unconditionally.
type ContactService struct {
	contactRepo *repository.ContactRepository
	leadRepo    *repository.LeadRepository
	quotaRepo   *repository.QuotaRepository
	quotaSvc    *QuotaService
	purchaseSvc *PurchaseService
	hub         *ws.Hub
	log         *logrus.Logger
	now         func() time.Time
}

func NewContactService(
	contactRepo *repository.ContactRepository,
	leadRepo *repository.LeadRepository,
	quotaRepo *repository.QuotaRepository,
	quotaSvc *QuotaService,
	purchaseSvc *PurchaseService,
	hub *ws.Hub,
	log *logrus.Logger,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		leadRepo:    leadRepo,
		quotaRepo:   quotaRepo,
		quotaSvc:    quotaSvc,
		purchaseSvc: purchaseSvc,
		hub:         hub,
		log:         log,
		now:         time.Now,
	}
}

// Log validates the vendor's relation to the lead, resets quota, bumps
// all three usage counters by one, and inserts a PENDING contact row.
// A ws event with the fresh quota snapshot is pushed afterwards so the
// UI can update counters without a refetch; that push is best-effort,
// not a durability guarantee.
func (s *ContactService) Log(vendorID, leadID uint, contactType, notes string) (*models.LeadContact, error) {
	lead, err := s.leadRepo.GetByID(leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotPurchased
		}
		return nil, err
	}
	ok, err := s.purchaseSvc.HasAccess(vendorID, lead)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPurchased
	}

	quota, err := s.quotaSvc.Snapshot(vendorID)
	if err != nil {
		return nil, err
	}
	if err := s.quotaRepo.IncrementAll(vendorID); err != nil {
		return nil, err
	}
	quota.DailyUsed++
	quota.WeeklyUsed++
	quota.YearlyUsed++

	contact := &models.LeadContact{
		VendorID:    vendorID,
		LeadID:      leadID,
		ContactType: contactType,
		Status:      domain.ContactStatusPending,
		ContactDate: s.now(),
		Notes:       notes,
	}
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, err
	}

	s.hub.PublishToUser(vendorID, ws.Event{
		Type: "contact.logged",
		Data: map[string]interface{}{
			"contact": contact,
			"quota":   quota,
		},
	})
	return contact, nil
}

// UpdateStatus advances a contact's follow-up status. Only the owning
// vendor can touch it.
func (s *ContactService) UpdateStatus(vendorID, contactID uint, status string) (*models.LeadContact, error) {
	contact, err := s.contactRepo.GetByID(contactID)
	if err != nil {
		return nil, err
	}
	if contact.VendorID != vendorID {
		return nil, ErrNotPurchased
	}
	if err := s.contactRepo.UpdateStatus(contactID, status); err != nil {
		return nil, err
	}
	contact.Status = status
	return contact, nil
}
