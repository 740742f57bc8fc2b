package plans

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitForAmountTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount       int
		wantLimit    int
		wantDays     int
		wantName     string
		wantUnlimted bool
	}{
		{amount: 99, wantLimit: 10, wantDays: 1, wantName: "1 Day"},
		{amount: 200, wantLimit: 20, wantDays: 7, wantName: "7 Days"},
		{amount: 350, wantLimit: 29, wantDays: 15, wantName: "15 Days"},
		{amount: 499, wantLimit: UnlimitedSentinel, wantDays: 30, wantName: "30 Days", wantUnlimted: true},
		{amount: 0, wantLimit: 5, wantDays: 0, wantName: "Free"},
		{amount: 100, wantLimit: 5, wantDays: 0, wantName: "Free"},
		{amount: -7, wantLimit: 5, wantDays: 0, wantName: "Free"},
		{amount: 500, wantLimit: 5, wantDays: 0, wantName: "Free"},
	}

	for _, tc := range tests {
		limit := LimitForAmount(tc.amount)
		assert.Equal(t, tc.wantLimit, limit.Value(), "limit for amount %d", tc.amount)
		assert.Equal(t, tc.wantUnlimted, limit.IsUnlimited(), "unlimited flag for amount %d", tc.amount)
		assert.Equal(t, tc.wantDays, DurationDays(tc.amount), "duration for amount %d", tc.amount)
		assert.Equal(t, tc.wantName, PlanName(tc.amount), "name for amount %d", tc.amount)
	}
}

func TestUnlimitedNeverBlocks(t *testing.T) {
	t.Parallel()

	l := LimitForAmount(499)
	assert.True(t, l.Allows(0))
	assert.True(t, l.Allows(UnlimitedSentinel-1))
	assert.True(t, l.Allows(UnlimitedSentinel+100))
}

func TestRemainingNeverNegative(t *testing.T) {
	t.Parallel()

	l := Finite(5)
	assert.Equal(t, 5, l.Remaining(0))
	assert.Equal(t, 0, l.Remaining(5))
	assert.Equal(t, 0, l.Remaining(9))
}

func TestFromStoredRoundTrip(t *testing.T) {
	t.Parallel()

	assert.False(t, FromStored(20).IsUnlimited())
	assert.Equal(t, 20, FromStored(20).Value())
	assert.True(t, FromStored(UnlimitedSentinel).IsUnlimited())
	// Legacy rows may hold values above the sentinel; still unlimited.
	assert.True(t, FromStored(UnlimitedSentinel+1).IsUnlimited())
}

func TestLimitSerializesAsSentinelInteger(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Unlimited())
	require.NoError(t, err)
	assert.Equal(t, "999999", string(out))

	out, err = json.Marshal(Finite(29))
	require.NoError(t, err)
	assert.Equal(t, "29", string(out))
}

func TestKnownAmount(t *testing.T) {
	t.Parallel()

	for _, amount := range Amounts() {
		assert.True(t, KnownAmount(amount))
	}
	assert.False(t, KnownAmount(0))
	assert.False(t, KnownAmount(250))
}
