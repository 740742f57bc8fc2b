package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserPlanIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		plan    UserPlan
		expired bool
	}{
		{"free never expires", UserPlan{AccountStatus: ACCOUNT_STATUS_FREE}, false},
		{"pro without expiry", UserPlan{AccountStatus: ACCOUNT_STATUS_PRO}, false},
		{"pro before expiry", UserPlan{AccountStatus: ACCOUNT_STATUS_PRO, PlanExpiry: &future}, false},
		{"pro past expiry", UserPlan{AccountStatus: ACCOUNT_STATUS_PRO, PlanExpiry: &past}, true},
		{"free with stale expiry", UserPlan{AccountStatus: ACCOUNT_STATUS_FREE, PlanExpiry: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.plan.IsExpired(now))
		})
	}
}

func TestUserPlanResetToFree(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	up := UserPlan{
		AccountStatus:   ACCOUNT_STATUS_PRO,
		PlanName:        "7 Days",
		PlanAmount:      200,
		VoicesGenerated: 12,
		GenerationLimit: 20,
		PlanExpiry:      &expiry,
	}

	up.ResetToFree()

	assert.Equal(t, ACCOUNT_STATUS_FREE, up.AccountStatus)
	assert.Equal(t, "Free", up.PlanName)
	assert.Equal(t, 0, up.PlanAmount)
	assert.Equal(t, 0, up.VoicesGenerated)
	assert.Equal(t, FreeGenerationLimit, up.GenerationLimit)
	assert.Nil(t, up.PlanExpiry)

	// idempotent on an already-free row
	up.ResetToFree()
	assert.Equal(t, ACCOUNT_STATUS_FREE, up.AccountStatus)
}
