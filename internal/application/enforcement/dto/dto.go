// Package dto defines the API-facing shapes of the enforcement surface.
package dto

import "time"

// SeatAssignmentDTO is the API shape of a seat assignment.
type SeatAssignmentDTO struct {
	SID       string     `json:"sid"`
	LearnerID uint       `json:"learner_id"`
	Tier      string     `json:"tier"`
	IsOverage bool       `json:"is_overage"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ActivationResultDTO reports the outcome of an activation or grade band
// change. A business failure populates FailureKind and Guidance and leaves
// Assignment nil.
type ActivationResultDTO struct {
	Activated     bool               `json:"activated"`
	AlreadyActive bool               `json:"already_active,omitempty"`
	Assignment    *SeatAssignmentDTO `json:"assignment,omitempty"`
	Warning       string             `json:"warning,omitempty"`
	FailureKind   string             `json:"failure_kind,omitempty"`
	Guidance      string             `json:"guidance,omitempty"`
	// SeatReleased reports that a failed grade band change already released
	// the previous seat; the learner currently holds none.
	SeatReleased bool `json:"seat_released,omitempty"`
}

// FeatureAccessDTO answers "can this learner use this feature right now".
type FeatureAccessDTO struct {
	LearnerID uint   `json:"learner_id"`
	Feature   string `json:"feature"`
	Allowed   bool   `json:"allowed"`
	Payer     string `json:"payer,omitempty"`
	Reason    string `json:"reason"`
}

// PoolUsageDTO is one pool's utilization line in a usage summary.
type PoolUsageDTO struct {
	SID                string    `json:"sid"`
	Tier               string    `json:"tier"`
	ProductSKU         string    `json:"product_sku"`
	SeatsCommitted     int       `json:"seats_committed"`
	SeatsAllocated     int       `json:"seats_allocated"`
	OverageUsed        int       `json:"overage_used"`
	OverageLimit       int       `json:"overage_limit"`
	EnforcementMode    string    `json:"enforcement_mode"`
	UtilizationPercent float64   `json:"utilization_percent"`
	WindowStart        time.Time `json:"window_start"`
	WindowEnd          time.Time `json:"window_end"`
	Active             bool      `json:"active"`
}

// SeatUsageSummaryDTO aggregates pool utilization for one organization.
type SeatUsageSummaryDTO struct {
	OrganizationID      uint           `json:"organization_id"`
	Pools               []PoolUsageDTO `json:"pools"`
	TotalSeatsCommitted int            `json:"total_seats_committed"`
	TotalSeatsAllocated int            `json:"total_seats_allocated"`
	TotalOverageUsed    int            `json:"total_overage_used"`
}

// ExpiryResultDTO reports a stale seat expiry sweep.
type ExpiryResultDTO struct {
	AssignmentsExpired int `json:"assignments_expired"`
}
