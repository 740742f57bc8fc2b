// Package payments implements the manual payment verification flow. Users
// submit a mobile-money transaction reference, an admin verifies or rejects
// it, and verification applies the matching plan to the user's quota row.
package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/plans"
)

var (
	// ErrInvalidSubmission covers malformed user input on submit.
	ErrInvalidSubmission = errors.New("payments: amount and transaction id are required")
	// ErrDuplicateTransaction refuses a second pending request with the
	// same transaction id.
	ErrDuplicateTransaction = errors.New("payments: transaction id already submitted")
	// ErrAlreadyResolved guards the single pending->resolved transition.
	ErrAlreadyResolved = errors.New("payments: payment request already resolved")
	// ErrNotFound is returned for unknown payment identifiers.
	ErrNotFound = errors.New("payments: payment request not found")
)

// Service provides submission and admin resolution of payment requests.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a payment service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a payment service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Submit records a pending payment request. The claimed amount is stored
// as-is; plan mapping happens only at verification time so an admin sees
// exactly what the user entered.
func (s *Service) Submit(ctx context.Context, userID uint, amount int, trxID string) (*models.PaymentRequest, error) {
	_ = ctx
	trxID = strings.TrimSpace(trxID)
	if userID == 0 || amount <= 0 || trxID == "" {
		return nil, ErrInvalidSubmission
	}

	if existing, err := s.repo.FindPendingByTrxID(trxID); err == nil && existing != nil {
		return nil, ErrDuplicateTransaction
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &models.PaymentRequest{
		UserID: userID,
		Amount: amount,
		TrxID:  trxID,
		Status: models.PAYMENT_STATUS_PENDING,
	}
	if err := s.repo.CreatePayment(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Verify marks a pending request verified and applies the plan keyed by the
// request amount. Amounts outside the plan table verify the payment but
// leave the account on free-tier defaults.
func (s *Service) Verify(ctx context.Context, paymentUUID string, adminID uint, note string) (*models.PaymentRequest, error) {
	_ = ctx
	p, err := s.resolve(paymentUUID, models.PAYMENT_STATUS_VERIFIED, adminID, note)
	if err != nil {
		return nil, err
	}

	up, err := s.repo.GetOrCreateUserPlan(p.UserID)
	if err != nil {
		return nil, err
	}
	s.applyPlan(up, p.Amount)
	if err := s.repo.SavePlan(up); err != nil {
		return nil, err
	}
	return p, nil
}

// Reject marks a pending request rejected. The user's plan is untouched.
func (s *Service) Reject(ctx context.Context, paymentUUID string, adminID uint, note string) (*models.PaymentRequest, error) {
	_ = ctx
	return s.resolve(paymentUUID, models.PAYMENT_STATUS_REJECTED, adminID, note)
}

// GetByUUID returns a single payment request.
func (s *Service) GetByUUID(ctx context.Context, paymentUUID string) (*models.PaymentRequest, error) {
	_ = ctx
	p, err := s.repo.GetPaymentByUUID(strings.TrimSpace(paymentUUID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPending returns pending requests oldest-first for the admin queue.
func (s *Service) ListPending(ctx context.Context, limit int) ([]models.PaymentRequest, error) {
	_ = ctx
	return s.repo.ListPendingPayments(limit)
}

// ListByUser returns a user's payment history newest-first.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.PaymentRequest, error) {
	_ = ctx
	return s.repo.ListPaymentsByUser(userID)
}

func (s *Service) resolve(paymentUUID, status string, adminID uint, note string) (*models.PaymentRequest, error) {
	p, err := s.repo.GetPaymentByUUID(strings.TrimSpace(paymentUUID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.IsResolved() {
		return nil, ErrAlreadyResolved
	}

	now := s.now()
	p.Status = status
	p.Note = strings.TrimSpace(note)
	p.ResolvedBy = adminID
	p.ResolvedAt = &now
	if err := s.repo.SavePayment(p); err != nil {
		return nil, err
	}
	return p, nil
}

// applyPlan rewrites the quota row for a verified amount. Counters reset so
// the new period starts fresh.
func (s *Service) applyPlan(up *models.UserPlan, amount int) {
	days := plans.DurationDays(amount)
	if days == 0 {
		up.ResetToFree()
		return
	}

	expiry := s.now().AddDate(0, 0, days)
	up.AccountStatus = models.ACCOUNT_STATUS_PRO
	up.PlanName = plans.PlanName(amount)
	up.PlanAmount = amount
	up.GenerationLimit = plans.LimitForAmount(amount).Value()
	up.VoicesGenerated = 0
	up.PlanExpiry = &expiry
}
