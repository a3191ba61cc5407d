package coverage

import "time"

// Resolver computes coverage profiles. It is stateless and side-effect free:
// every call recomputes from the supplied snapshots because either payer's
// inputs can change independently, and staleness is worse than the
// recomputation cost.
type Resolver struct {
	catalog FeatureSet
}

// NewResolver creates a resolver over the full feature catalog. The catalog
// is only used to derive upsell candidates.
func NewResolver(catalog FeatureSet) *Resolver {
	return &Resolver{catalog: catalog.Clone()}
}

// Resolve assigns a payer to every feature the learner can access as of asOf.
// Organizational coverage always takes precedence over individual coverage
// for the same key.
func (r *Resolver) Resolve(learnerID uint, tier string, grants []*FeatureGrant, individual *IndividualCoverage, asOf time.Time) *CoverageProfile {
	districtFeatures := make(FeatureSet)
	for _, g := range grants {
		if g.AppliesAt(asOf) && g.AppliesToTier(tier) {
			districtFeatures.Add(g.FeatureKey())
		}
	}

	individualFeatures := make(FeatureSet)
	if individual.CoversAt(asOf) {
		individualFeatures = individual.Features.Clone()
	}

	effective := districtFeatures.Union(individualFeatures)
	payers := make(map[FeatureKey]Payer, len(effective))
	for key := range effective {
		if districtFeatures.Contains(key) {
			payers[key] = PayerOrganization
		} else {
			payers[key] = PayerIndividual
		}
	}

	return &CoverageProfile{
		learnerID:  learnerID,
		effective:  effective,
		payers:     payers,
		overlap:    individualFeatures.Intersect(districtFeatures),
		upsell:     r.catalog.Diff(effective),
		computedAt: asOf,
	}
}
