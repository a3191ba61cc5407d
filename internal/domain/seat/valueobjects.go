// Package seat provides domain models and business logic for seat entitlement
// management: contractually committed seat pools and per-learner assignments.
package seat

// Tier represents an ordered grade band used to partition seat pools.
type Tier string

const (
	TierK2  Tier = "K-2"
	Tier35  Tier = "3-5"
	Tier68  Tier = "6-8"
	Tier912 Tier = "9-12"
)

// IsValid checks if the tier is a known grade band.
func (t Tier) IsValid() bool {
	switch t {
	case TierK2, Tier35, Tier68, Tier912:
		return true
	default:
		return false
	}
}

// Order returns the position of the tier in the grade-band ordering.
// Unknown tiers sort last.
func (t Tier) Order() int {
	switch t {
	case TierK2:
		return 0
	case Tier35:
		return 1
	case Tier68:
		return 2
	case Tier912:
		return 3
	default:
		return 4
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// EnforcementMode controls what happens when a pool's committed seats plus
// overage allowance are exhausted.
type EnforcementMode string

const (
	// EnforcementSoft allows allocation past the overage limit; every seat
	// beyond committed is still counted and reported as overage.
	EnforcementSoft EnforcementMode = "soft"
	// EnforcementHard rejects allocation once committed + overage limit is
	// reached.
	EnforcementHard EnforcementMode = "hard"
)

// IsValid checks if the enforcement mode is valid.
func (m EnforcementMode) IsValid() bool {
	switch m {
	case EnforcementSoft, EnforcementHard:
		return true
	default:
		return false
	}
}

// IsHard reports whether the mode rejects allocations at the hard cap.
func (m EnforcementMode) IsHard() bool {
	return m == EnforcementHard
}

// String returns the string representation of the enforcement mode.
func (m EnforcementMode) String() string {
	return string(m)
}

// AssignmentStatus represents the lifecycle state of a seat assignment.
type AssignmentStatus string

const (
	AssignmentStatusActive      AssignmentStatus = "active"
	AssignmentStatusRevoked     AssignmentStatus = "revoked"
	AssignmentStatusTransferred AssignmentStatus = "transferred"
	AssignmentStatusExpired     AssignmentStatus = "expired"
)

// IsValid checks if the assignment status is valid.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusActive, AssignmentStatusRevoked, AssignmentStatusTransferred, AssignmentStatusExpired:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status is the active state.
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentStatusActive
}

// String returns the string representation of the assignment status.
func (s AssignmentStatus) String() string {
	return string(s)
}

// FailureKind classifies expected business failures of allocator operations.
// These are returned in results and branched on by callers, never raised as
// errors.
type FailureKind string

const (
	// FailureNone indicates the operation succeeded.
	FailureNone FailureKind = ""
	// FailureNoEntitlement means no active pool covers the learner's
	// organization and grade band. Retryable only once a new contract line
	// is provisioned.
	FailureNoEntitlement FailureKind = "no_entitlement"
	// FailureSeatLimitExceeded means the pool's hard cap was reached.
	// Requires administrative action, never silently retried.
	FailureSeatLimitExceeded FailureKind = "seat_limit_exceeded"
	// FailureConflictingAssignment means a grant was attempted while the
	// learner holds an active seat in a different grade band.
	FailureConflictingAssignment FailureKind = "conflicting_assignment"
)

// IsFailure reports whether the kind denotes a failed operation.
func (k FailureKind) IsFailure() bool {
	return k != FailureNone
}

// String returns the string representation of the failure kind.
func (k FailureKind) String() string {
	return string(k)
}
