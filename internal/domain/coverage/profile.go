package coverage

import "time"

// CoverageProfile is the computed payer map for one learner. It is immutable:
// callers replace a profile wholesale, never mutate one in place. A cache is
// an optimization only; there is no authoritative persisted copy.
type CoverageProfile struct {
	learnerID  uint
	effective  FeatureSet
	payers     map[FeatureKey]Payer
	overlap    FeatureSet
	upsell     FeatureSet
	computedAt time.Time
}

func (p *CoverageProfile) LearnerID() uint       { return p.learnerID }
func (p *CoverageProfile) ComputedAt() time.Time { return p.computedAt }

// Effective returns the union of organizational and individual features.
func (p *CoverageProfile) Effective() FeatureSet {
	return p.effective.Clone()
}

// PayerOf returns the payer responsible for a feature the learner can access.
func (p *CoverageProfile) PayerOf(key FeatureKey) (Payer, bool) {
	payer, ok := p.payers[key]
	return payer, ok
}

// Payers returns the full payer assignment.
func (p *CoverageProfile) Payers() map[FeatureKey]Payer {
	out := make(map[FeatureKey]Payer, len(p.payers))
	for k, v := range p.payers {
		out[k] = v
	}
	return out
}

// Overlap returns individually paid features the organization already covers:
// the candidate set for refund or credit.
func (p *CoverageProfile) Overlap() FeatureSet {
	return p.overlap.Clone()
}

// Upsell returns catalog features covered by neither payer.
func (p *CoverageProfile) Upsell() FeatureSet {
	return p.upsell.Clone()
}

// HasFeature reports whether any payer covers the feature.
func (p *CoverageProfile) HasFeature(key FeatureKey) bool {
	return p.effective.Contains(key)
}

// ProfileSnapshot is the serializable form of a profile, used by caches.
type ProfileSnapshot struct {
	LearnerID  uint                 `json:"learner_id"`
	Effective  []FeatureKey         `json:"effective"`
	Payers     map[FeatureKey]Payer `json:"payers"`
	Overlap    []FeatureKey         `json:"overlap"`
	Upsell     []FeatureKey         `json:"upsell"`
	ComputedAt time.Time            `json:"computed_at"`
}

// Snapshot converts the profile to its serializable form.
func (p *CoverageProfile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		LearnerID:  p.learnerID,
		Effective:  p.effective.Sorted(),
		Payers:     p.Payers(),
		Overlap:    p.overlap.Sorted(),
		Upsell:     p.upsell.Sorted(),
		ComputedAt: p.computedAt,
	}
}

// FromSnapshot rebuilds a profile from its serializable form.
func FromSnapshot(s ProfileSnapshot) *CoverageProfile {
	payers := make(map[FeatureKey]Payer, len(s.Payers))
	for k, v := range s.Payers {
		payers[k] = v
	}
	return &CoverageProfile{
		learnerID:  s.LearnerID,
		effective:  NewFeatureSet(s.Effective...),
		payers:     payers,
		overlap:    NewFeatureSet(s.Overlap...),
		upsell:     NewFeatureSet(s.Upsell...),
		computedAt: s.ComputedAt,
	}
}
