// Package testutil provides in-memory doubles of the seat store for tests.
// The doubles honor the same atomicity contract as the real store: counter
// mutations are conditional updates under one lock, and the one-active-
// assignment-per-learner constraint is enforced at write time.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"seatwise/internal/domain/seat"
)

// PoolStore implements seat.PoolRepository backed by a map.
type PoolStore struct {
	mu     sync.Mutex
	rows   map[uint]*poolRow
	nextID uint

	// FailNextIncrement simulates a store outage on the next conditional
	// increment.
	FailNextIncrement bool
}

type poolRow struct {
	sid            string
	organizationID uint
	tier           seat.Tier
	productSKU     string
	seatsCommitted int
	seatsAllocated int
	overageUsed    int
	overageLimit   int
	enforcement    seat.EnforcementMode
	windowStart    time.Time
	windowEnd      time.Time
	active         bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPoolStore creates an empty in-memory pool repository.
func NewPoolStore() *PoolStore {
	return &PoolStore{rows: make(map[uint]*poolRow)}
}

var _ seat.PoolRepository = (*PoolStore)(nil)

// Create persists a new pool.
func (s *PoolStore) Create(ctx context.Context, pool *seat.SeatPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.rows[s.nextID] = &poolRow{
		sid:            pool.SID(),
		organizationID: pool.OrganizationID(),
		tier:           pool.Tier(),
		productSKU:     pool.ProductSKU(),
		seatsCommitted: pool.SeatsCommitted(),
		seatsAllocated: pool.SeatsAllocated(),
		overageUsed:    pool.OverageUsed(),
		overageLimit:   pool.OverageLimit(),
		enforcement:    pool.Enforcement(),
		windowStart:    pool.WindowStart(),
		windowEnd:      pool.WindowEnd(),
		active:         pool.IsActive(),
		createdAt:      pool.CreatedAt(),
		updatedAt:      pool.UpdatedAt(),
	}
	return pool.SetID(s.nextID)
}

// GetByID retrieves a pool by ID.
func (s *PoolStore) GetByID(ctx context.Context, poolID uint) (*seat.SeatPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[poolID]
	if !ok {
		return nil, seat.ErrPoolNotFound
	}
	return reconstructPool(poolID, row)
}

// FindActivePool returns the active pool with the latest window end covering asOf.
func (s *PoolStore) FindActivePool(ctx context.Context, organizationID uint, tier seat.Tier, asOf time.Time) (*seat.SeatPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bestID uint
	var best *poolRow
	for poolID, row := range s.rows {
		if !row.active || row.organizationID != organizationID || row.tier != tier {
			continue
		}
		if asOf.Before(row.windowStart) || !asOf.Before(row.windowEnd) {
			continue
		}
		if best == nil || row.windowEnd.After(best.windowEnd) {
			best = row
			bestID = poolID
		}
	}
	if best == nil {
		return nil, nil
	}
	return reconstructPool(bestID, best)
}

// ConditionalIncrement mirrors the store-level conditional UPDATE: the
// capacity check and the counter bump happen under one lock.
func (s *PoolStore) ConditionalIncrement(ctx context.Context, poolID uint, hard bool) (*seat.IncrementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailNextIncrement {
		s.FailNextIncrement = false
		return nil, fmt.Errorf("simulated store failure")
	}

	row, ok := s.rows[poolID]
	if !ok {
		return nil, seat.ErrPoolNotFound
	}
	if !row.active {
		return nil, seat.ErrPoolInactive
	}

	if hard && row.seatsAllocated >= row.seatsCommitted+row.overageLimit {
		return &seat.IncrementResult{OK: false}, nil
	}

	row.seatsAllocated++
	isOverage := row.seatsAllocated > row.seatsCommitted
	if isOverage {
		row.overageUsed++
	}
	row.updatedAt = time.Now().UTC()
	return &seat.IncrementResult{OK: true, IsOverage: isOverage}, nil
}

// Decrement releases one seat.
func (s *PoolStore) Decrement(ctx context.Context, poolID uint, wasOverage bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[poolID]
	if !ok {
		return seat.ErrPoolNotFound
	}
	if row.seatsAllocated > 0 {
		row.seatsAllocated--
	}
	if wasOverage && row.overageUsed > 0 {
		row.overageUsed--
	}
	row.updatedAt = time.Now().UTC()
	return nil
}

// ListByOrganization returns all pools for an organization ordered by tier.
func (s *PoolStore) ListByOrganization(ctx context.Context, organizationID uint) ([]*seat.SeatPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uint
	for poolID, row := range s.rows {
		if row.organizationID == organizationID {
			ids = append(ids, poolID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.rows[ids[i]].tier.Order() < s.rows[ids[j]].tier.Order()
	})

	pools := make([]*seat.SeatPool, 0, len(ids))
	for _, poolID := range ids {
		pool, err := reconstructPool(poolID, s.rows[poolID])
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// ListExpiredActive returns active pools whose window closed as of asOf.
func (s *PoolStore) ListExpiredActive(ctx context.Context, asOf time.Time) ([]*seat.SeatPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pools []*seat.SeatPool
	for poolID, row := range s.rows {
		if row.active && !asOf.Before(row.windowEnd) {
			pool, err := reconstructPool(poolID, row)
			if err != nil {
				return nil, err
			}
			pools = append(pools, pool)
		}
	}
	return pools, nil
}

// Deactivate marks a pool inactive.
func (s *PoolStore) Deactivate(ctx context.Context, poolID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[poolID]
	if !ok {
		return seat.ErrPoolNotFound
	}
	row.active = false
	row.updatedAt = time.Now().UTC()
	return nil
}

func reconstructPool(poolID uint, row *poolRow) (*seat.SeatPool, error) {
	return seat.ReconstructSeatPool(seat.SeatPoolReconstructParams{
		ID:             poolID,
		SID:            row.sid,
		OrganizationID: row.organizationID,
		Tier:           row.tier,
		ProductSKU:     row.productSKU,
		SeatsCommitted: row.seatsCommitted,
		SeatsAllocated: row.seatsAllocated,
		OverageUsed:    row.overageUsed,
		OverageLimit:   row.overageLimit,
		Enforcement:    row.enforcement,
		WindowStart:    row.windowStart,
		WindowEnd:      row.windowEnd,
		Active:         row.active,
		CreatedAt:      row.createdAt,
		UpdatedAt:      row.updatedAt,
	})
}

// AssignmentStore implements seat.AssignmentRepository backed by a map.
type AssignmentStore struct {
	mu     sync.Mutex
	rows   map[uint]*assignmentRow
	nextID uint
}

type assignmentRow struct {
	sid               string
	learnerID         uint
	poolID            uint
	schoolID          *uint
	tier              seat.Tier
	isOverage         bool
	status            seat.AssignmentStatus
	transferredFromID *uint
	createdAt         time.Time
	endedAt           *time.Time
	endedReason       *string
}

// NewAssignmentStore creates an empty in-memory assignment repository.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{rows: make(map[uint]*assignmentRow)}
}

var _ seat.AssignmentRepository = (*AssignmentStore)(nil)

// Create persists a new active assignment, enforcing one active assignment
// per learner the way the store's unique index does.
func (s *AssignmentStore) Create(ctx context.Context, assignment *seat.SeatAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.learnerID == assignment.LearnerID() && row.status.IsActive() {
			return fmt.Errorf("create assignment for learner %d: %w",
				assignment.LearnerID(), seat.ErrDuplicateActiveAssignment)
		}
	}

	s.nextID++
	s.rows[s.nextID] = &assignmentRow{
		sid:               assignment.SID(),
		learnerID:         assignment.LearnerID(),
		poolID:            assignment.PoolID(),
		schoolID:          assignment.SchoolID(),
		tier:              assignment.Tier(),
		isOverage:         assignment.IsOverage(),
		status:            assignment.Status(),
		transferredFromID: assignment.TransferredFromID(),
		createdAt:         assignment.CreatedAt(),
		endedAt:           assignment.EndedAt(),
		endedReason:       assignment.EndedReason(),
	}
	return assignment.SetID(s.nextID)
}

// GetByID retrieves an assignment by ID.
func (s *AssignmentStore) GetByID(ctx context.Context, assignmentID uint) (*seat.SeatAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[assignmentID]
	if !ok {
		return nil, seat.ErrAssignmentNotFound
	}
	return reconstructAssignment(assignmentID, row)
}

// FindActiveByLearner returns the learner's active assignment or (nil, nil).
func (s *AssignmentStore) FindActiveByLearner(ctx context.Context, learnerID uint) (*seat.SeatAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for assignmentID, row := range s.rows {
		if row.learnerID == learnerID && row.status.IsActive() {
			return reconstructAssignment(assignmentID, row)
		}
	}
	return nil, nil
}

// End transitions an assignment out of the active state.
func (s *AssignmentStore) End(ctx context.Context, assignmentID uint, status seat.AssignmentStatus, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[assignmentID]
	if !ok {
		return seat.ErrAssignmentNotFound
	}
	if !row.status.IsActive() {
		return seat.ErrAssignmentNotActive
	}
	now := time.Now().UTC()
	row.status = status
	row.endedAt = &now
	row.endedReason = &reason
	return nil
}

// ListActiveByPool returns all active assignments in a pool.
func (s *AssignmentStore) ListActiveByPool(ctx context.Context, poolID uint) ([]*seat.SeatAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uint
	for assignmentID, row := range s.rows {
		if row.poolID == poolID && row.status.IsActive() {
			ids = append(ids, assignmentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	assignments := make([]*seat.SeatAssignment, 0, len(ids))
	for _, assignmentID := range ids {
		assignment, err := reconstructAssignment(assignmentID, s.rows[assignmentID])
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

func reconstructAssignment(assignmentID uint, row *assignmentRow) (*seat.SeatAssignment, error) {
	return seat.ReconstructSeatAssignment(seat.SeatAssignmentReconstructParams{
		ID:                assignmentID,
		SID:               row.sid,
		LearnerID:         row.learnerID,
		PoolID:            row.poolID,
		SchoolID:          row.schoolID,
		Tier:              row.tier,
		IsOverage:         row.isOverage,
		Status:            row.status,
		TransferredFromID: row.transferredFromID,
		CreatedAt:         row.createdAt,
		EndedAt:           row.endedAt,
		EndedReason:       row.endedReason,
	})
}
