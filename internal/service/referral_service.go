package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"leadmart/config"
	"leadmart/internal/domain"
	"leadmart/internal/models"
	"leadmart/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidReferral covers malformed, unknown, inactive and
// self-referral codes. It is a distinct, typed kind because the
// boundary maps it to a 400 while every other failure is a 500; no
// caller may classify by message text.
var (
	ErrInvalidReferral   = errors.New("invalid referral")
	ErrAlreadyReferred   = errors.New("vendor already referred")
	ErrCashoutTooSmall   = errors.New("cashout amount below minimum")
	ErrBankDetailInvalid = errors.New("bank detail not found for vendor")
	ErrCashoutNotPending = errors.New("cashout request already processed")
)

// ReferralService runs the referral state machine
// (LINKED -> QUALIFIED -> REWARDED, REJECTED terminal) and the wallet
// ledger behind it. Every balance move pairs a guarded wallet update
// with an append-only ledger entry inside one database transaction.
type ReferralService struct {
	db           *gorm.DB
	cfg          *config.ReferralConfig
	referralRepo *repository.ReferralRepository
	walletRepo   *repository.WalletRepository
	cashoutRepo  *repository.CashoutRepository
	bankRepo     *repository.BankDetailRepository
	log          *logrus.Logger
	now          func() time.Time
}

func NewReferralService(
	db *gorm.DB,
	cfg *config.ReferralConfig,
	referralRepo *repository.ReferralRepository,
	walletRepo *repository.WalletRepository,
	cashoutRepo *repository.CashoutRepository,
	bankRepo *repository.BankDetailRepository,
	log *logrus.Logger,
) *ReferralService {
	return &ReferralService{
		db:           db,
		cfg:          cfg,
		referralRepo: referralRepo,
		walletRepo:   walletRepo,
		cashoutRepo:  cashoutRepo,
		bankRepo:     bankRepo,
		log:          log,
		now:          time.Now,
	}
}

// NormalizeCode trims and lowercases a submitted referral code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Link creates the LINKED edge between the code owner and the vendor.
// All validation happens before any write; a malformed or unknown code
// never touches the database.
func (s *ReferralService) Link(vendorID uint, code string) (*models.Referral, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrInvalidReferral
	}
	rc, err := s.referralRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReferral
		}
		return nil, err
	}
	if rc.VendorID == vendorID {
		return nil, ErrInvalidReferral
	}
	if _, err := s.referralRepo.GetByReferredVendor(vendorID); err == nil {
		return nil, ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ref := &models.Referral{
		ReferrerID:       rc.VendorID,
		ReferredVendorID: vendorID,
		Status:           domain.ReferralStatusLinked,
	}
	if err := s.referralRepo.Create(ref); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReferred
		}
		return nil, err
	}
	return ref, nil
}

// QualifyAndAccrue is invoked from the payment-completion webhook: the
// referred vendor's first qualifying payment advances the referral to
// QUALIFIED and immediately accrues the commission into the referrer's
// pending balance. Both transitions are state-guarded, so webhook
// redelivery accrues nothing twice. Vendors without a referral are a
// silent no-op.
func (s *ReferralService) QualifyAndAccrue(referredVendorID uint, p *models.Payment) {
	ref, err := s.referralRepo.GetByReferredVendor(referredVendorID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.WithError(err).Warn("referral lookup failed during qualification")
		}
		return
	}
	if ref.Status != domain.ReferralStatusLinked {
		return
	}

	commission := p.AmountCents * s.cfg.CommissionPercent / 100
	if commission <= 0 {
		return
	}
	if _, err := s.walletRepo.GetOrCreate(ref.ReferrerID); err != nil {
		s.log.WithError(err).Warn("wallet lookup failed during qualification")
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.referralRepo.MarkQualified(tx, ref.ID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return nil // lost the race to a concurrent delivery
		}
		ok, err = s.referralRepo.MarkRewarded(tx, ref.ID, commission, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := s.walletRepo.CreditPending(tx, ref.ReferrerID, commission); err != nil {
			return err
		}
		return s.walletRepo.AppendLedger(tx, &models.WalletLedgerEntry{
			VendorID:    ref.ReferrerID,
			EntryType:   domain.LedgerEntryCredit,
			AmountCents: commission,
			ReferralID:  &ref.ID,
			PaymentID:   &p.ID,
		})
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"referral_id": ref.ID,
			"error":       err,
		}).Error("referral reward accrual failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"referral_id":      ref.ID,
		"referrer_id":      ref.ReferrerID,
		"commission_cents": commission,
	}).Info("referral reward accrued")
}

// Mature moves accrued funds from pending to available. Triggered by an
// admin action; the time-delay variant would call the same method.
func (s *ReferralService) Mature(vendorID uint, amountCents int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.walletRepo.MaturePending(tx, vendorID, amountCents); err != nil {
			return err
		}
		return s.walletRepo.AppendLedger(tx, &models.WalletLedgerEntry{
			VendorID:    vendorID,
			EntryType:   domain.LedgerEntryMature,
			AmountCents: amountCents,
		})
	})
}

// RequestCashout checks the balance and places the hold in the same
// transaction that inserts the request row. Two concurrent requests
// whose amounts jointly exceed available_balance cannot both pass the
// guarded update.
func (s *ReferralService) RequestCashout(vendorID uint, amountCents int64, bankDetailID uint, note string) (*models.CashoutRequest, error) {
	if amountCents < s.cfg.MinCashoutCents {
		return nil, ErrCashoutTooSmall
	}
	bank, err := s.bankRepo.GetByID(bankDetailID)
	if err != nil || bank.VendorID != vendorID {
		return nil, ErrBankDetailInvalid
	}
	if _, err := s.walletRepo.GetOrCreate(vendorID); err != nil {
		return nil, err
	}

	req := &models.CashoutRequest{
		VendorID:     vendorID,
		OrderID:      fmt.Sprintf("co-%s", uuid.New().String()),
		AmountCents:  amountCents,
		BankDetailID: bankDetailID,
		Note:         note,
		Status:       domain.CashoutStatusPending,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.walletRepo.Hold(tx, vendorID, amountCents); err != nil {
			return err
		}
		if err := s.cashoutRepo.Create(tx, req); err != nil {
			return err
		}
		return s.walletRepo.AppendLedger(tx, &models.WalletLedgerEntry{
			VendorID:    vendorID,
			EntryType:   domain.LedgerEntryHold,
			AmountCents: amountCents,
			CashoutID:   &req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ApproveCashout settles a PENDING request: reserved funds are paid
// out and the DEBIT ledger entry is written.
func (s *ReferralService) ApproveCashout(cashoutID uint) (*models.CashoutRequest, error) {
	req, err := s.cashoutRepo.GetByID(cashoutID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.cashoutRepo.MarkProcessed(tx, req.ID, domain.CashoutStatusPending, domain.CashoutStatusPaid, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrCashoutNotPending
		}
		if err := s.walletRepo.SettleHold(tx, req.VendorID, req.AmountCents); err != nil {
			return err
		}
		return s.walletRepo.AppendLedger(tx, &models.WalletLedgerEntry{
			VendorID:    req.VendorID,
			EntryType:   domain.LedgerEntryDebit,
			AmountCents: req.AmountCents,
			CashoutID:   &req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	req.Status = domain.CashoutStatusPaid
	return req, nil
}

// RejectCashout returns the held funds to available.
func (s *ReferralService) RejectCashout(cashoutID uint) (*models.CashoutRequest, error) {
	req, err := s.cashoutRepo.GetByID(cashoutID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.cashoutRepo.MarkProcessed(tx, req.ID, domain.CashoutStatusPending, domain.CashoutStatusRejected, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrCashoutNotPending
		}
		if err := s.walletRepo.ReleaseHold(tx, req.VendorID, req.AmountCents); err != nil {
			return err
		}
		return s.walletRepo.AppendLedger(tx, &models.WalletLedgerEntry{
			VendorID:    req.VendorID,
			EntryType:   domain.LedgerEntryRelease,
			AmountCents: req.AmountCents,
			CashoutID:   &req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	req.Status = domain.CashoutStatusRejected
	return req, nil
}

// Overview bundles the vendor's referral dashboard: code, wallet,
// recent referrals and ledger tail.
type Overview struct {
	Code      *models.ReferralCode       `json:"code"`
	Wallet    *models.ReferralWallet     `json:"wallet"`
	Referrals []models.Referral          `json:"referrals"`
	Ledger    []models.WalletLedgerEntry `json:"ledger"`
	Settings  OverviewSettings           `json:"settings"`
}

type OverviewSettings struct {
	CommissionPercent int64 `json:"commission_percent"`
	MinCashoutCents   int64 `json:"min_cashout_cents"`
}

func (s *ReferralService) Overview(vendorID uint) (*Overview, error) {
	code, err := s.referralRepo.GetOrCreateCode(vendorID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.walletRepo.GetOrCreate(vendorID)
	if err != nil {
		return nil, err
	}
	referrals, err := s.referralRepo.ListByReferrer(vendorID, 10, 0)
	if err != nil {
		return nil, err
	}
	ledger, err := s.walletRepo.ListLedger(vendorID, 20, 0)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Code:      code,
		Wallet:    wallet,
		Referrals: referrals,
		Ledger:    ledger,
		Settings: OverviewSettings{
			CommissionPercent: s.cfg.CommissionPercent,
			MinCashoutCents:   s.cfg.MinCashoutCents,
		},
	}, nil
}

// Cashouts lists the vendor's cashout history.
func (s *ReferralService) Cashouts(vendorID uint, limit, offset int) ([]models.CashoutRequest, error) {
	return s.cashoutRepo.ListByVendor(vendorID, limit, offset)
}
