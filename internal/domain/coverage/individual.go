package coverage

import "time"

// IndividualCoverage is the derived coverage an individual subscription
// currently grants one learner. It is supplied by the external subscription
// collaborator and never persisted by this engine.
type IndividualCoverage struct {
	// Features the subscription grants. Multiple subscription items for the
	// same key collapse into one set member.
	Features FeatureSet
	// PeriodStart and PeriodEnd bound the current billing period [start, end).
	PeriodStart time.Time
	PeriodEnd   time.Time
	// Status is the subscription billing state.
	Status SubscriptionStatus
	// ChargeByFeature is the individual charge attributable to each feature
	// for the current billing period.
	ChargeByFeature map[FeatureKey]Money
}

// CoversAt reports whether the subscription grants access at t.
func (c *IndividualCoverage) CoversAt(t time.Time) bool {
	if c == nil || !c.Status.Covers() {
		return false
	}
	return !t.Before(c.PeriodStart) && t.Before(c.PeriodEnd)
}

// ChargeFor returns the charge attributable to a feature, zero when unknown.
func (c *IndividualCoverage) ChargeFor(key FeatureKey) Money {
	if c == nil || c.ChargeByFeature == nil {
		return Zero("")
	}
	if charge, ok := c.ChargeByFeature[key]; ok {
		return charge
	}
	return Zero("")
}
