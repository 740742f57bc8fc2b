package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/plans"
)

type memRepository struct {
	payments map[string]*models.PaymentRequest
	plans    map[uint]*models.UserPlan
}

func newMemRepository() *memRepository {
	return &memRepository{
		payments: make(map[string]*models.PaymentRequest),
		plans:    make(map[uint]*models.UserPlan),
	}
}

func (m *memRepository) CreatePayment(p *models.PaymentRequest) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	cp := *p
	m.payments[p.UUID] = &cp
	return nil
}

func (m *memRepository) GetPaymentByUUID(id string) (*models.PaymentRequest, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepository) FindPendingByTrxID(trxID string) (*models.PaymentRequest, error) {
	for _, p := range m.payments {
		if p.TrxID == trxID && p.Status == models.PAYMENT_STATUS_PENDING {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepository) SavePayment(p *models.PaymentRequest) error {
	cp := *p
	m.payments[p.UUID] = &cp
	return nil
}

func (m *memRepository) ListPendingPayments(limit int) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	for _, p := range m.payments {
		if p.Status == models.PAYMENT_STATUS_PENDING {
			out = append(out, *p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepository) ListPaymentsByUser(userID uint) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepository) GetOrCreateUserPlan(userID uint) (*models.UserPlan, error) {
	if up, ok := m.plans[userID]; ok {
		cp := *up
		return &cp, nil
	}
	up := &models.UserPlan{
		UserID:          userID,
		AccountStatus:   models.ACCOUNT_STATUS_FREE,
		GenerationLimit: models.FreeGenerationLimit,
	}
	m.plans[userID] = up
	cp := *up
	return &cp, nil
}

func (m *memRepository) SavePlan(up *models.UserPlan) error {
	cp := *up
	m.plans[up.UserID] = &cp
	return nil
}

func newTestService(repo Repository, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	t.Parallel()

	repo := newMemRepository()
	svc := NewService(repo)

	p, err := svc.Submit(context.Background(), 1, 200, "  TRX-555  ")
	require.NoError(t, err)
	assert.Equal(t, models.PAYMENT_STATUS_PENDING, p.Status)
	assert.Equal(t, "TRX-555", p.TrxID)
	assert.Equal(t, 200, p.Amount)
	assert.NotEmpty(t, p.UUID)
	assert.False(t, p.IsResolved())
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepository())
	ctx := context.Background()

	cases := []struct {
		name   string
		userID uint
		amount int
		trxID  string
	}{
		{"missing user", 0, 200, "TRX-1"},
		{"zero amount", 1, 0, "TRX-1"},
		{"negative amount", 1, -50, "TRX-1"},
		{"blank trx id", 1, 200, "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.userID, tc.amount, tc.trxID)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}
}

func TestSubmitRefusesDuplicatePendingTrxID(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepository())
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, 200, "TRX-DUP")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, 2, 350, "TRX-DUP")
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
}

func TestVerifyAppliesPlan(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := newMemRepository()
	svc := newTestService(repo, now)
	ctx := context.Background()

	p, err := svc.Submit(ctx, 7, 200, "TRX-7")
	require.NoError(t, err)

	resolved, err := svc.Verify(ctx, p.UUID, 99, "matched bank statement")
	require.NoError(t, err)
	assert.Equal(t, models.PAYMENT_STATUS_VERIFIED, resolved.Status)
	assert.Equal(t, uint(99), resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	up, err := repo.GetOrCreateUserPlan(7)
	require.NoError(t, err)
	assert.Equal(t, models.ACCOUNT_STATUS_PRO, up.AccountStatus)
	assert.Equal(t, "7 Days", up.PlanName)
	assert.Equal(t, 20, up.GenerationLimit)
	assert.Zero(t, up.VoicesGenerated)
	require.NotNil(t, up.PlanExpiry)
	assert.Equal(t, now.AddDate(0, 0, 7), *up.PlanExpiry)
}

func TestVerifyUnlimitedTierStoresSentinel(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := newMemRepository()
	svc := newTestService(repo, now)
	ctx := context.Background()

	p, err := svc.Submit(ctx, 3, 499, "TRX-3")
	require.NoError(t, err)
	_, err = svc.Verify(ctx, p.UUID, 1, "")
	require.NoError(t, err)

	up, _ := repo.GetOrCreateUserPlan(3)
	assert.Equal(t, plans.UnlimitedSentinel, up.GenerationLimit)
	assert.Equal(t, "30 Days", up.PlanName)
	assert.True(t, plans.FromStored(up.GenerationLimit).IsUnlimited())
}

func TestVerifyUnknownAmountLeavesAccountFree(t *testing.T) {
	t.Parallel()

	repo := newMemRepository()
	svc := NewService(repo)
	ctx := context.Background()

	// Reachable when an admin verifies a payment whose claimed amount
	// matches no plan, e.g. a partial transfer.
	p, err := svc.Submit(ctx, 4, 150, "TRX-4")
	require.NoError(t, err)
	resolved, err := svc.Verify(ctx, p.UUID, 1, "amount matches no plan")
	require.NoError(t, err)
	assert.Equal(t, models.PAYMENT_STATUS_VERIFIED, resolved.Status)

	up, _ := repo.GetOrCreateUserPlan(4)
	assert.Equal(t, models.ACCOUNT_STATUS_FREE, up.AccountStatus)
	assert.Equal(t, models.FreeGenerationLimit, up.GenerationLimit)
	assert.Nil(t, up.PlanExpiry)
}

func TestRejectLeavesPlanUntouched(t *testing.T) {
	t.Parallel()

	repo := newMemRepository()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Submit(ctx, 5, 350, "TRX-5")
	require.NoError(t, err)

	resolved, err := svc.Reject(ctx, p.UUID, 2, "no matching transfer")
	require.NoError(t, err)
	assert.Equal(t, models.PAYMENT_STATUS_REJECTED, resolved.Status)
	assert.Equal(t, "no matching transfer", resolved.Note)

	up, _ := repo.GetOrCreateUserPlan(5)
	assert.Equal(t, models.ACCOUNT_STATUS_FREE, up.AccountStatus)
}

func TestResolutionIsSingleTransition(t *testing.T) {
	t.Parallel()

	repo := newMemRepository()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Submit(ctx, 6, 99, "TRX-6")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, p.UUID, 1, "")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, p.UUID, 1, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	_, err = svc.Reject(ctx, p.UUID, 1, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestResolveUnknownUUID(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepository())
	ctx := context.Background()

	_, err := svc.Verify(ctx, uuid.New().String(), 1, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByUUID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
