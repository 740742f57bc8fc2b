package quota

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/plans"
)

type memStore struct {
	mu    sync.Mutex
	saves int
	fail  bool
}

func (m *memStore) SavePlan(up *models.UserPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.fail {
		return errors.New("connection lost")
	}
	return nil
}

func freePlan(userID uint) *models.UserPlan {
	return &models.UserPlan{
		UserID:          userID,
		AccountStatus:   models.ACCOUNT_STATUS_FREE,
		PlanName:        "Free",
		GenerationLimit: models.FreeGenerationLimit,
	}
}

func proPlan(userID uint, amount int, expiry time.Time) *models.UserPlan {
	return &models.UserPlan{
		UserID:          userID,
		AccountStatus:   models.ACCOUNT_STATUS_PRO,
		PlanName:        plans.PlanName(amount),
		PlanAmount:      amount,
		GenerationLimit: plans.LimitForAmount(amount).Value(),
		PlanExpiry:      &expiry,
	}
}

func TestReserveConsumesUnits(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	up := freePlan(1)

	for i := 0; i < models.FreeGenerationLimit; i++ {
		require.NoError(t, svc.Reserve(nil, up))
	}
	assert.Equal(t, models.FreeGenerationLimit, up.VoicesGenerated)

	err := svc.Reserve(nil, up)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, models.FreeGenerationLimit, up.VoicesGenerated, "refusal must not mutate the counter")
}

func TestReserveDisabledAccount(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	up := freePlan(2)
	user := &models.User{Status: models.STATUS_DISABLED}

	err := svc.Reserve(user, up)
	assert.ErrorIs(t, err, ErrAccountDisabled)
	assert.Zero(t, up.VoicesGenerated)
}

func TestReleaseRefundsAndFloorsAtZero(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	up := freePlan(3)

	require.NoError(t, svc.Reserve(nil, up))
	svc.Release(up)
	assert.Zero(t, up.VoicesGenerated)

	svc.Release(up)
	assert.Zero(t, up.VoicesGenerated)
}

func TestUnlimitedPlanNeverRefuses(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	up := proPlan(4, 499, time.Now().Add(24*time.Hour))

	for i := 0; i < 1000; i++ {
		require.NoError(t, svc.Reserve(nil, up))
	}
	assert.Equal(t, 1000, up.VoicesGenerated)
}

func TestNormalizeExpiryRevertsExpiredPro(t *testing.T) {
	t.Parallel()

	now := time.Now()
	up := proPlan(5, 200, now.Add(-time.Hour))
	up.VoicesGenerated = 12

	assert.True(t, NormalizeExpiry(up, now))
	assert.Equal(t, models.ACCOUNT_STATUS_FREE, up.AccountStatus)
	assert.Equal(t, "Free", up.PlanName)
	assert.Equal(t, models.FreeGenerationLimit, up.GenerationLimit)
	assert.Zero(t, up.VoicesGenerated)
	assert.Nil(t, up.PlanExpiry)

	// Second pass is a no-op.
	assert.False(t, NormalizeExpiry(up, now))
}

func TestNormalizeExpiryLeavesActivePro(t *testing.T) {
	t.Parallel()

	now := time.Now()
	up := proPlan(6, 350, now.Add(time.Hour))
	up.VoicesGenerated = 7

	assert.False(t, NormalizeExpiry(up, now))
	assert.Equal(t, models.ACCOUNT_STATUS_PRO, up.AccountStatus)
	assert.Equal(t, 7, up.VoicesGenerated)
}

func TestReserveRevertsExpiredPlanBeforeCounting(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	expiry := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	up := proPlan(7, 99, expiry)
	up.VoicesGenerated = 9

	require.NoError(t, svc.Reserve(nil, up))
	assert.Equal(t, models.ACCOUNT_STATUS_FREE, up.AccountStatus)
	assert.Equal(t, 1, up.VoicesGenerated, "reverted plan starts counting from zero")
	assert.Equal(t, models.FreeGenerationLimit-1, svc.Remaining(up))
}

func TestRemainingNeverNegative(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	up := freePlan(8)
	up.VoicesGenerated = 50

	assert.Zero(t, svc.Remaining(up))
}

func TestReserveSurvivesStoreFailure(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{fail: true})
	up := freePlan(9)

	require.NoError(t, svc.Reserve(nil, up))
	assert.Equal(t, 1, up.VoicesGenerated, "in-memory state wins when the store is down")
}

func TestConcurrentReservesRespectLimit(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{})
	up := freePlan(10)

	var wg sync.WaitGroup
	var okCount sync.Map
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := svc.Reserve(nil, up); err == nil {
				okCount.Store(i, true)
			}
		}(i)
	}
	wg.Wait()

	granted := 0
	okCount.Range(func(_, _ any) bool { granted++; return true })
	assert.Equal(t, models.FreeGenerationLimit, granted)
	assert.Equal(t, models.FreeGenerationLimit, up.VoicesGenerated)
}
