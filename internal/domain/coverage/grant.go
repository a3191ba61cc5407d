package coverage

import (
	"fmt"
	"time"
)

// FeatureGrant makes a feature available to all learners of an organization
// for a time window, independent of seats. An optional tier restricts the
// grant to one grade band; nil covers every band.
type FeatureGrant struct {
	id             uint
	organizationID uint
	featureKey     FeatureKey
	tier           *string
	windowStart    time.Time
	windowEnd      time.Time
	active         bool
	createdAt      time.Time
}

// NewFeatureGrant creates an organizational feature grant.
func NewFeatureGrant(organizationID uint, featureKey FeatureKey, tier *string, windowStart, windowEnd time.Time) (*FeatureGrant, error) {
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("grant window end must be after start")
	}
	return &FeatureGrant{
		organizationID: organizationID,
		featureKey:     featureKey,
		tier:           tier,
		windowStart:    windowStart,
		windowEnd:      windowEnd,
		active:         true,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructFeatureGrant rebuilds a grant from persistence.
func ReconstructFeatureGrant(id, organizationID uint, featureKey FeatureKey, tier *string, windowStart, windowEnd time.Time, active bool, createdAt time.Time) (*FeatureGrant, error) {
	if id == 0 {
		return nil, fmt.Errorf("grant ID cannot be zero")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	return &FeatureGrant{
		id:             id,
		organizationID: organizationID,
		featureKey:     featureKey,
		tier:           tier,
		windowStart:    windowStart,
		windowEnd:      windowEnd,
		active:         active,
		createdAt:      createdAt,
	}, nil
}

func (g *FeatureGrant) ID() uint               { return g.id }
func (g *FeatureGrant) OrganizationID() uint   { return g.organizationID }
func (g *FeatureGrant) FeatureKey() FeatureKey { return g.featureKey }
func (g *FeatureGrant) Tier() *string          { return g.tier }
func (g *FeatureGrant) WindowStart() time.Time { return g.windowStart }
func (g *FeatureGrant) WindowEnd() time.Time   { return g.windowEnd }
func (g *FeatureGrant) IsActive() bool         { return g.active }
func (g *FeatureGrant) CreatedAt() time.Time   { return g.createdAt }

// SetID sets the grant ID (persistence layer use only).
func (g *FeatureGrant) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("grant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("grant ID cannot be zero")
	}
	g.id = id
	return nil
}

// AppliesAt reports whether the grant is active and its window contains t.
func (g *FeatureGrant) AppliesAt(t time.Time) bool {
	return g.active && !t.Before(g.windowStart) && t.Before(g.windowEnd)
}

// AppliesToTier reports whether the grant covers the given grade band.
func (g *FeatureGrant) AppliesToTier(tier string) bool {
	return g.tier == nil || *g.tier == tier
}
