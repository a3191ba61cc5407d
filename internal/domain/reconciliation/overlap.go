// Package reconciliation detects double payment: learners whose individual
// subscription is paying for features their organization already covers.
package reconciliation

import (
	"fmt"
	"time"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/shared/id"
)

// RecommendedAction is the suggested remediation for one overlap.
type RecommendedAction string

const (
	// ActionCredit suggests a pro-rata credit for the unused remainder of
	// the billing period.
	ActionCredit RecommendedAction = "credit"
	// ActionDowngrade suggests removing the item at renewal when no charge
	// remains to credit.
	ActionDowngrade RecommendedAction = "downgrade"
	// ActionNone means the billing period already elapsed; nothing to do.
	ActionNone RecommendedAction = "none"
)

// String returns the string representation of the action.
func (a RecommendedAction) String() string {
	return string(a)
}

// IsValid checks whether the action is a known value.
func (a RecommendedAction) IsValid() bool {
	switch a {
	case ActionCredit, ActionDowngrade, ActionNone:
		return true
	}
	return false
}

// CoverageOverlap records one (learner, feature) pair paid for individually
// while organizationally covered, with the pro-rata credit the learner could
// be owed for the rest of the billing period.
type CoverageOverlap struct {
	id               uint
	sid              string
	learnerID        uint
	organizationID   uint
	featureKey       coverage.FeatureKey
	periodStart      time.Time
	periodEnd        time.Time
	individualCharge coverage.Money
	potentialCredit  coverage.Money
	action           RecommendedAction
	detectedAt       time.Time
}

// NewCoverageOverlap creates an overlap record.
func NewCoverageOverlap(
	learnerID, organizationID uint,
	featureKey coverage.FeatureKey,
	periodStart, periodEnd time.Time,
	individualCharge, potentialCredit coverage.Money,
	action RecommendedAction,
	detectedAt time.Time,
) (*CoverageOverlap, error) {
	if learnerID == 0 {
		return nil, fmt.Errorf("learner ID is required")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid recommended action: %s", action)
	}
	return &CoverageOverlap{
		sid:              id.MustGenerateWithPrefix(id.PrefixCoverageOverlap, id.DefaultLength),
		learnerID:        learnerID,
		organizationID:   organizationID,
		featureKey:       featureKey,
		periodStart:      periodStart,
		periodEnd:        periodEnd,
		individualCharge: individualCharge,
		potentialCredit:  potentialCredit,
		action:           action,
		detectedAt:       detectedAt,
	}, nil
}

// ReconstructCoverageOverlapParams carries persisted overlap state.
type ReconstructCoverageOverlapParams struct {
	ID               uint
	SID              string
	LearnerID        uint
	OrganizationID   uint
	FeatureKey       coverage.FeatureKey
	PeriodStart      time.Time
	PeriodEnd        time.Time
	IndividualCharge coverage.Money
	PotentialCredit  coverage.Money
	Action           RecommendedAction
	DetectedAt       time.Time
}

// ReconstructCoverageOverlap rebuilds an overlap from persistence.
func ReconstructCoverageOverlap(params ReconstructCoverageOverlapParams) (*CoverageOverlap, error) {
	if params.ID == 0 {
		return nil, fmt.Errorf("overlap ID cannot be zero")
	}
	if !params.Action.IsValid() {
		return nil, fmt.Errorf("invalid recommended action: %s", params.Action)
	}
	return &CoverageOverlap{
		id:               params.ID,
		sid:              params.SID,
		learnerID:        params.LearnerID,
		organizationID:   params.OrganizationID,
		featureKey:       params.FeatureKey,
		periodStart:      params.PeriodStart,
		periodEnd:        params.PeriodEnd,
		individualCharge: params.IndividualCharge,
		potentialCredit:  params.PotentialCredit,
		action:           params.Action,
		detectedAt:       params.DetectedAt,
	}, nil
}

func (o *CoverageOverlap) ID() uint                          { return o.id }
func (o *CoverageOverlap) SID() string                       { return o.sid }
func (o *CoverageOverlap) LearnerID() uint                   { return o.learnerID }
func (o *CoverageOverlap) OrganizationID() uint              { return o.organizationID }
func (o *CoverageOverlap) FeatureKey() coverage.FeatureKey   { return o.featureKey }
func (o *CoverageOverlap) PeriodStart() time.Time            { return o.periodStart }
func (o *CoverageOverlap) PeriodEnd() time.Time              { return o.periodEnd }
func (o *CoverageOverlap) IndividualCharge() coverage.Money  { return o.individualCharge }
func (o *CoverageOverlap) PotentialCredit() coverage.Money   { return o.potentialCredit }
func (o *CoverageOverlap) Action() RecommendedAction         { return o.action }
func (o *CoverageOverlap) DetectedAt() time.Time             { return o.detectedAt }

// SetID sets the overlap ID (persistence layer use only).
func (o *CoverageOverlap) SetID(id uint) error {
	if o.id != 0 {
		return fmt.Errorf("overlap ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("overlap ID cannot be zero")
	}
	o.id = id
	return nil
}
