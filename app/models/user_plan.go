package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ACCOUNT_STATUS_FREE = "free"
	ACCOUNT_STATUS_PRO  = "pro"

	// FreeGenerationLimit is the default limit applied to free accounts.
	FreeGenerationLimit = 5
)

// UserPlan stores the plan classification and quota counters for a user.
// PlanAmount is the currency value that keys the plan policy table, not the
// human-readable PlanName. GenerationLimit mirrors the policy limit so
// stored rows stay self-describing; the unlimited tier is stored as the
// 999999 sentinel.
type UserPlan struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"uniqueIndex" json:"user_id"`
	AccountStatus    string         `gorm:"type:varchar(50);default:'free'" json:"account_status" validate:"oneof=free pro"`
	PlanName         string         `gorm:"type:varchar(100);default:''" json:"plan_name"`
	PlanAmount       int            `gorm:"default:0" json:"plan_amount"`
	VoicesGenerated  int            `gorm:"default:0" json:"voices_generated"`
	GenerationLimit  int            `gorm:"default:5" json:"generation_limit"`
	PlanExpiry       *time.Time     `gorm:"type:timestamp;default:null" json:"plan_expiry"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// GetOrCreateUserPlan returns the existing plan row or creates free defaults
func GetOrCreateUserPlan(db *gorm.DB, userID uint) (*UserPlan, error) {
	var up UserPlan
	if err := db.Where("user_id = ?", userID).First(&up).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			up = UserPlan{
				UserID:          userID,
				AccountStatus:   ACCOUNT_STATUS_FREE,
				GenerationLimit: FreeGenerationLimit,
			}
			if err := db.Create(&up).Error; err != nil {
				return nil, err
			}
			return &up, nil
		}
		return nil, err
	}
	return &up, nil
}

// IsPro reports whether the row currently claims a paid plan.
func (up *UserPlan) IsPro() bool {
	return up.AccountStatus == ACCOUNT_STATUS_PRO
}

// IsExpired reports whether a pro plan has passed its expiry at the given
// instant. Free plans never expire.
func (up *UserPlan) IsExpired(now time.Time) bool {
	return up.IsPro() && up.PlanExpiry != nil && now.After(*up.PlanExpiry)
}

// ResetToFree reverts the row to free-tier defaults and clears counters.
// Calling it on an already-free row leaves the row unchanged.
func (up *UserPlan) ResetToFree() {
	up.AccountStatus = ACCOUNT_STATUS_FREE
	up.PlanName = "Free"
	up.PlanAmount = 0
	up.VoicesGenerated = 0
	up.GenerationLimit = FreeGenerationLimit
	up.PlanExpiry = nil
}
