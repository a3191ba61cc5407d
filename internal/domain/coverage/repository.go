package coverage

import (
	"context"
	"time"
)

// Learner is the roster context needed to scope coverage lookups.
type Learner struct {
	ID             uint
	OrganizationID uint
	SchoolID       *uint
	Tier           string
}

// FeatureGrantRepository defines persistence operations for organizational
// feature grants.
type FeatureGrantRepository interface {
	// Create persists a new grant.
	Create(ctx context.Context, grant *FeatureGrant) error

	// ListActiveByOrganization returns grants active at asOf for an
	// organization, all tiers included; tier filtering happens at resolve
	// time.
	ListActiveByOrganization(ctx context.Context, organizationID uint, asOf time.Time) ([]*FeatureGrant, error)

	// Deactivate marks a grant inactive.
	Deactivate(ctx context.Context, grantID uint) error
}

// SubscriptionProvider is the external collaborator owning individual
// subscriptions. The engine only consumes derived coverage; checkout,
// proration and invoicing stay on the provider's side.
type SubscriptionProvider interface {
	// GetIndividualCoverage returns the learner's current individual
	// coverage, or (nil, nil) when the learner has no subscription.
	GetIndividualCoverage(ctx context.Context, learnerID uint, asOf time.Time) (*IndividualCoverage, error)
}

// LearnerDirectory is the roster collaborator.
type LearnerDirectory interface {
	// GetLearner returns the learner's organization/tier context. Returns
	// ErrLearnerNotFound when unknown.
	GetLearner(ctx context.Context, learnerID uint) (*Learner, error)

	// ListWithIndividualCoverage returns learner IDs holding an active
	// individual subscription as of asOf. The reconciliation scan iterates
	// this pre-filtered subset: organization-only learners can never
	// overlap.
	ListWithIndividualCoverage(ctx context.Context, asOf time.Time) ([]uint, error)
}

// ProfileCache is an optional short-TTL cache for computed profiles. The
// resolver itself stays stateless; a cache is an optimization, not a source
// of truth.
type ProfileCache interface {
	Get(ctx context.Context, learnerID uint) (*CoverageProfile, error)
	Set(ctx context.Context, profile *CoverageProfile) error
	Invalidate(ctx context.Context, learnerID uint) error
}
