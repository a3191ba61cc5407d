// Package coverage provides domain models and logic for payer precedence:
// deciding, per learner and per feature, whether the organization's contract
// or the learner's individual subscription is the responsible payer.
package coverage

import "sort"

// FeatureKey identifies one purchasable feature (e.g. MODULE_ELA, ADDON_SEL).
type FeatureKey string

// String returns the string representation of the feature key.
func (k FeatureKey) String() string {
	return string(k)
}

// Payer identifies which side is responsible for a feature.
type Payer string

const (
	// PayerOrganization means the district contract covers the feature.
	// Organizational coverage always takes precedence for the same key.
	PayerOrganization Payer = "organization"
	// PayerIndividual means the learner's own subscription covers it.
	PayerIndividual Payer = "individual"
)

// String returns the string representation of the payer.
func (p Payer) String() string {
	return string(p)
}

// SubscriptionStatus is the billing state of an individual subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusLapsed   SubscriptionStatus = "lapsed"
)

// Covers reports whether the status grants feature access.
func (s SubscriptionStatus) Covers() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// String returns the string representation of the subscription status.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// FeatureSet is an unordered set of feature keys. Duplicate inputs collapse.
type FeatureSet map[FeatureKey]struct{}

// NewFeatureSet builds a set from keys.
func NewFeatureSet(keys ...FeatureKey) FeatureSet {
	s := make(FeatureSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s FeatureSet) Contains(k FeatureKey) bool {
	_, ok := s[k]
	return ok
}

// Add inserts a key.
func (s FeatureSet) Add(k FeatureKey) {
	s[k] = struct{}{}
}

// Union returns a new set with members of both sets.
func (s FeatureSet) Union(other FeatureSet) FeatureSet {
	out := make(FeatureSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Intersect returns a new set with members of both sets only.
func (s FeatureSet) Intersect(other FeatureSet) FeatureSet {
	out := make(FeatureSet)
	for k := range s {
		if other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Diff returns a new set with members of s not in other.
func (s FeatureSet) Diff(other FeatureSet) FeatureSet {
	out := make(FeatureSet)
	for k := range s {
		if !other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the keys in lexical order for stable output.
func (s FeatureSet) Sorted() []FeatureKey {
	keys := make([]FeatureKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns an independent copy.
func (s FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
