package seat

import (
	"fmt"
	"time"

	"seatwise/internal/shared/id"
)

// SeatPool represents a contractually committed block of seats for one
// (organization, grade band, product SKU) combination.
//
// The allocation counters are owned by the store: they only change through
// the PoolRepository's conditional increment/decrement primitives, never by
// mutating the aggregate and saving it back.
type SeatPool struct {
	id             uint
	sid            string // Stripe-style ID: pool_xxx
	organizationID uint
	tier           Tier
	productSKU     string
	seatsCommitted int
	seatsAllocated int
	overageUsed    int
	overageLimit   int
	enforcement    EnforcementMode
	windowStart    time.Time
	windowEnd      time.Time
	active         bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSeatPool creates a new seat pool for an activated contract line.
func NewSeatPool(
	organizationID uint,
	tier Tier,
	productSKU string,
	seatsCommitted int,
	overageLimit int,
	enforcement EnforcementMode,
	windowStart, windowEnd time.Time,
) (*SeatPool, error) {
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}
	if productSKU == "" {
		return nil, fmt.Errorf("product SKU is required")
	}
	if seatsCommitted < 0 {
		return nil, fmt.Errorf("seats committed cannot be negative")
	}
	if overageLimit < 0 {
		return nil, fmt.Errorf("overage limit cannot be negative")
	}
	if !enforcement.IsValid() {
		return nil, fmt.Errorf("invalid enforcement mode: %s", enforcement)
	}
	if !windowEnd.After(windowStart) {
		return nil, ErrInvalidWindow
	}

	now := time.Now().UTC()
	return &SeatPool{
		sid:            id.MustGenerateWithPrefix(id.PrefixSeatPool, id.DefaultLength),
		organizationID: organizationID,
		tier:           tier,
		productSKU:     productSKU,
		seatsCommitted: seatsCommitted,
		overageLimit:   overageLimit,
		enforcement:    enforcement,
		windowStart:    windowStart,
		windowEnd:      windowEnd,
		active:         true,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// SeatPoolReconstructParams carries the persisted state of a seat pool.
type SeatPoolReconstructParams struct {
	ID             uint
	SID            string
	OrganizationID uint
	Tier           Tier
	ProductSKU     string
	SeatsCommitted int
	SeatsAllocated int
	OverageUsed    int
	OverageLimit   int
	Enforcement    EnforcementMode
	WindowStart    time.Time
	WindowEnd      time.Time
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReconstructSeatPool rebuilds a seat pool from persistence.
func ReconstructSeatPool(p SeatPoolReconstructParams) (*SeatPool, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("pool ID cannot be zero")
	}
	if !p.Tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", p.Tier)
	}
	if !p.Enforcement.IsValid() {
		return nil, fmt.Errorf("invalid enforcement mode: %s", p.Enforcement)
	}
	return &SeatPool{
		id:             p.ID,
		sid:            p.SID,
		organizationID: p.OrganizationID,
		tier:           p.Tier,
		productSKU:     p.ProductSKU,
		seatsCommitted: p.SeatsCommitted,
		seatsAllocated: p.SeatsAllocated,
		overageUsed:    p.OverageUsed,
		overageLimit:   p.OverageLimit,
		enforcement:    p.Enforcement,
		windowStart:    p.WindowStart,
		windowEnd:      p.WindowEnd,
		active:         p.Active,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (p *SeatPool) ID() uint                     { return p.id }
func (p *SeatPool) SID() string                  { return p.sid }
func (p *SeatPool) OrganizationID() uint         { return p.organizationID }
func (p *SeatPool) Tier() Tier                   { return p.tier }
func (p *SeatPool) ProductSKU() string           { return p.productSKU }
func (p *SeatPool) SeatsCommitted() int          { return p.seatsCommitted }
func (p *SeatPool) SeatsAllocated() int          { return p.seatsAllocated }
func (p *SeatPool) OverageUsed() int             { return p.overageUsed }
func (p *SeatPool) OverageLimit() int            { return p.overageLimit }
func (p *SeatPool) Enforcement() EnforcementMode { return p.enforcement }
func (p *SeatPool) WindowStart() time.Time       { return p.windowStart }
func (p *SeatPool) WindowEnd() time.Time         { return p.windowEnd }
func (p *SeatPool) IsActive() bool               { return p.active }
func (p *SeatPool) CreatedAt() time.Time         { return p.createdAt }
func (p *SeatPool) UpdatedAt() time.Time         { return p.updatedAt }

// SetID sets the pool ID (persistence layer use only).
func (p *SeatPool) SetID(poolID uint) error {
	if p.id != 0 {
		return fmt.Errorf("pool ID is already set")
	}
	if poolID == 0 {
		return fmt.Errorf("pool ID cannot be zero")
	}
	p.id = poolID
	return nil
}

// HardCap returns the absolute allocation ceiling under hard enforcement.
func (p *SeatPool) HardCap() int {
	return p.seatsCommitted + p.overageLimit
}

// WindowContains reports whether t falls inside the validity window [start, end).
func (p *SeatPool) WindowContains(t time.Time) bool {
	return !t.Before(p.windowStart) && t.Before(p.windowEnd)
}

// WindowClosed reports whether the validity window has ended as of t.
func (p *SeatPool) WindowClosed(t time.Time) bool {
	return !t.Before(p.windowEnd)
}

// Utilization returns allocated seats as a fraction of committed seats.
// Pools with zero committed seats report full utilization once anything is
// allocated.
func (p *SeatPool) Utilization() float64 {
	if p.seatsCommitted == 0 {
		if p.seatsAllocated > 0 {
			return 1.0
		}
		return 0.0
	}
	return float64(p.seatsAllocated) / float64(p.seatsCommitted)
}

// Deactivate marks the pool inactive. Idempotent.
func (p *SeatPool) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.updatedAt = time.Now().UTC()
}
