package model

import "strings"

// Tier is a subscription tier. Tiers form a total order; the ordinal is the
// sole basis for upgrade/downgrade/extend classification.
type Tier string

const (
	TierFree      Tier = "free"
	TierStarter   Tier = "starter"
	TierBasic     Tier = "basic"
	TierPro       Tier = "pro"
	TierUnlimited Tier = "unlimited"
)

var tierLevels = map[Tier]int{
	TierFree:      0,
	TierStarter:   1,
	TierBasic:     2,
	TierPro:       3,
	TierUnlimited: 4,
}

// ParseTier normalizes a tier string (trimmed, lowercased) and reports
// whether it names a known tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	_, ok := tierLevels[t]
	return t, ok
}

// Level returns the tier's ordinal. Unknown tiers rank as free.
func (t Tier) Level() int {
	return tierLevels[t]
}

// TierLevel ranks an optional tier; nil means the account was never
// subscribed and ranks as free.
func TierLevel(t *Tier) int {
	if t == nil {
		return 0
	}
	return t.Level()
}

// Credits is a billing-period credit balance. The unlimited tier carries no
// balance at all, which the database models as NULL; Credits keeps that
// distinction explicit instead of overloading nil.
type Credits struct {
	Unlimited bool
	Remaining int
}

func UnlimitedCredits() Credits {
	return Credits{Unlimited: true}
}

func CreditsOf(n int) Credits {
	return Credits{Remaining: n}
}

// CreditsFromPtr converts a nullable credit column. NULL means unlimited in
// the account snapshot (invariant: both credit columns are NULL iff the tier
// is unlimited).
func CreditsFromPtr(p *int) Credits {
	if p == nil {
		return UnlimitedCredits()
	}
	return CreditsOf(*p)
}

// Ptr converts back to the nullable column representation.
func (c Credits) Ptr() *int {
	if c.Unlimited {
		return nil
	}
	n := c.Remaining
	return &n
}

// Add grants n credits. Unlimited stays unlimited.
func (c Credits) Add(n int) Credits {
	if c.Unlimited {
		return c
	}
	return CreditsOf(c.Remaining + n)
}
