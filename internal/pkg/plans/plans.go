package plans

import "strconv"

// UnlimitedSentinel is the stored form of the unlimited tier. Limits live in
// the same integer columns and counters as finite limits, so "unlimited" is
// a large finite value every call site must treat as effectively unlimited,
// never as a literal cap.
const UnlimitedSentinel = 999999

// FreeLimit is the generation allowance of the implicit free tier.
const FreeLimit = 5

// Limit is the generation allowance of a plan tier.
type Limit struct {
	unlimited bool
	n         int
}

// Finite returns a bounded limit of n generations.
func Finite(n int) Limit {
	return Limit{n: n}
}

// Unlimited returns the unlimited limit.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// FromStored reconstructs a Limit from its stored integer form.
func FromStored(n int) Limit {
	if n >= UnlimitedSentinel {
		return Unlimited()
	}
	return Finite(n)
}

// IsUnlimited reports whether the limit is the unlimited tier.
func (l Limit) IsUnlimited() bool {
	return l.unlimited
}

// Value returns the integer form used for storage and serialization.
func (l Limit) Value() int {
	if l.unlimited {
		return UnlimitedSentinel
	}
	return l.n
}

// Allows reports whether another generation fits under the limit.
func (l Limit) Allows(used int) bool {
	if l.unlimited {
		return true
	}
	return l.n-used > 0
}

// Remaining returns max(0, limit-used). For the unlimited tier it reports
// the sentinel arithmetic so the value stays large and positive.
func (l Limit) Remaining(used int) int {
	r := l.Value() - used
	if r < 0 {
		return 0
	}
	return r
}

// MarshalJSON serializes the limit in its sentinel-compatible integer form.
func (l Limit) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(l.Value())), nil
}

type tier struct {
	limit        Limit
	durationDays int
	name         string
}

// Plan tiers keyed by payment amount. The amount is the primary key into
// this table; the plan name is display-only.
var tiers = map[int]tier{
	99:  {limit: Finite(10), durationDays: 1, name: "1 Day"},
	200: {limit: Finite(20), durationDays: 7, name: "7 Days"},
	350: {limit: Finite(29), durationDays: 15, name: "15 Days"},
	499: {limit: Unlimited(), durationDays: 30, name: "30 Days"},
}

// LimitForAmount returns the generation limit for a payment amount.
// Unknown amounts silently map to the free tier.
func LimitForAmount(amount int) Limit {
	if t, ok := tiers[amount]; ok {
		return t.limit
	}
	return Finite(FreeLimit)
}

// DurationDays returns the plan duration for a payment amount, 0 for free.
func DurationDays(amount int) int {
	if t, ok := tiers[amount]; ok {
		return t.durationDays
	}
	return 0
}

// PlanName returns the display label for a payment amount.
func PlanName(amount int) string {
	if t, ok := tiers[amount]; ok {
		return t.name
	}
	return "Free"
}

// KnownAmount reports whether the amount maps to a paid tier. The policy
// table itself stays permissive (unknown amounts fall back to free), but
// the payment review surface uses this to flag odd amounts to operators.
func KnownAmount(amount int) bool {
	_, ok := tiers[amount]
	return ok
}

// Amounts returns the known paid-tier amounts in ascending order.
func Amounts() []int {
	return []int{99, 200, 350, 499}
}
