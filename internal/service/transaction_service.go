package service

import (
	"context"
	"fmt"
	"time"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
)

// TransactionService records the financial transaction and its gift aid.
type TransactionService struct {
	guard    ports.ClaimStore // nil leaves declarations unguarded
	guardTTL time.Duration
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService. guard remembers
// declared transaction ids for guardTTL so a repeated call within that
// window, from any process, does not declare twice.
func NewTransactionService(guard ports.ClaimStore, guardTTL time.Duration) *TransactionService {
	return &TransactionService{
		guard:    guard,
		guardTTL: guardTTL,
		now:      time.Now,
	}
}

// BuildTransaction applies the recorder defaults to a donation.
func (s *TransactionService) BuildTransaction(constituentID string, d *domain.Donation) domain.Transaction {
	chargeDate := s.now().UTC()
	if d.ChargeDate != nil {
		chargeDate = d.ChargeDate.UTC()
	}
	return domain.Transaction{
		ConstituentID: constituentID,
		Amount:        d.AmountMajor(),
		Currency:      d.Currency,
		Campaign:      orDefault(d.Campaign, domain.DefaultCampaign),
		Fund:          orDefault(d.Fund, domain.DefaultFund),
		PaymentMethod: d.PaymentMethod,
		UTM: domain.UTM{
			Source:   orDefault(d.UTM.Source, domain.DefaultUTMValue),
			Medium:   orDefault(d.UTM.Medium, domain.DefaultUTMValue),
			Campaign: orDefault(d.UTM.Campaign, domain.DefaultUTMValue),
		},
		ChargeDate: chargeDate,
	}
}

// Record creates the CRM transaction for a donation.
func (s *TransactionService) Record(ctx context.Context, client ports.CRMClient, constituentID string, d *domain.Donation) (*domain.Transaction, error) {
	tx := s.BuildTransaction(constituentID, d)
	id, err := client.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	tx.ID = id
	return &tx, nil
}

// GiftAidEligible reports whether a donation qualifies for a declaration.
func GiftAidEligible(d *domain.Donation) bool {
	return d.GiftAid && d.Currency == domain.CurrencyGBP
}

// DeclareGiftAid creates the declaration for a qualifying transaction. It
// returns false without calling the CRM when the donation does not qualify
// or the transaction already has a declaration.
func (s *TransactionService) DeclareGiftAid(ctx context.Context, client ports.CRMClient, constituentID string, d *domain.Donation, tx *domain.Transaction) (bool, error) {
	if !GiftAidEligible(d) {
		return false, nil
	}
	guarded := false
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, tx.ID, s.guardTTL)
		switch {
		case err != nil:
			// Guard store unreachable: declare unguarded.
		case !ok:
			return false, nil
		default:
			guarded = true
		}
	}

	decl := domain.NewGiftAidDeclaration(d.Title, d.FirstName, d.LastName, s.now().UTC())
	if _, err := client.CreateGiftAidDeclaration(ctx, constituentID, decl); err != nil {
		if guarded {
			// Let a redelivery try again.
			_ = s.guard.Release(ctx, tx.ID)
		}
		return false, fmt.Errorf("create gift aid declaration: %w", err)
	}
	return true, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
