// Package quota implements plan consumption accounting. Consumption is
// optimistic and pre-paid: a generation reserves one unit before the vendor
// call, and the caller releases the unit if generation fails afterwards. A
// crash between the two permanently loses one unit; that tradeoff is
// deliberate and not compensated further.
package quota

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/plans"
)

var (
	// ErrQuotaExceeded is a refusal, not a failure: callers map it to an
	// upgrade prompt.
	ErrQuotaExceeded = errors.New("quota: generation limit reached")
	// ErrAccountDisabled gates every operation for disabled accounts.
	ErrAccountDisabled = errors.New("quota: account is disabled")
)

// Store persists plan rows. Persistence failures inside the service are
// logged and absorbed; in-memory state wins (availability over consistency).
type Store interface {
	SavePlan(up *models.UserPlan) error
}

// Service serializes quota consumption per user. Two concurrent reserves
// for the same user cannot both pass the remaining check within one
// process; cross-process writes stay last-write-wins.
type Service struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewService creates a quota service over the given plan store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		locks: make(map[uint]*sync.Mutex),
	}
}

func (s *Service) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// NormalizeExpiry lazily reverts an expired pro plan to free defaults and
// reports whether the row changed. Calling it again on an already-reverted
// row is a no-op.
func NormalizeExpiry(up *models.UserPlan, now time.Time) bool {
	if !up.IsExpired(now) {
		return false
	}
	up.ResetToFree()
	return true
}

// Reserve consumes one generation unit for the user. It refuses with
// ErrAccountDisabled for disabled accounts and with ErrQuotaExceeded when no
// units remain; refusals never mutate the row. On success the used counter
// is incremented and persisted.
func (s *Service) Reserve(user *models.User, up *models.UserPlan) error {
	l := s.userLock(up.UserID)
	l.Lock()
	defer l.Unlock()

	if user != nil && user.IsDisabled() {
		return ErrAccountDisabled
	}

	if NormalizeExpiry(up, s.now()) {
		s.persist(up)
	}

	limit := plans.FromStored(up.GenerationLimit)
	if !limit.Allows(up.VoicesGenerated) {
		return ErrQuotaExceeded
	}

	up.VoicesGenerated++
	s.persist(up)
	return nil
}

// Release refunds one previously reserved unit after a downstream failure.
// Best-effort: the counter never drops below zero.
func (s *Service) Release(up *models.UserPlan) {
	l := s.userLock(up.UserID)
	l.Lock()
	defer l.Unlock()

	if up.VoicesGenerated > 0 {
		up.VoicesGenerated--
		s.persist(up)
	}
}

// Remaining returns max(0, limit-used), after normalizing expiry. The
// unlimited tier reports sentinel-scale values; UI layers special-case it.
func (s *Service) Remaining(up *models.UserPlan) int {
	l := s.userLock(up.UserID)
	l.Lock()
	defer l.Unlock()

	if NormalizeExpiry(up, s.now()) {
		s.persist(up)
	}
	return plans.FromStored(up.GenerationLimit).Remaining(up.VoicesGenerated)
}

func (s *Service) persist(up *models.UserPlan) {
	if s.store == nil {
		return
	}
	if err := s.store.SavePlan(up); err != nil {
		log.Printf("quota: failed to persist plan for user %d: %v", up.UserID, err)
	}
}
