package seat

import "errors"

var (
	// ErrPoolNotFound is returned when a seat pool is not found
	ErrPoolNotFound = errors.New("seat pool not found")

	// ErrAssignmentNotFound is returned when a seat assignment is not found
	ErrAssignmentNotFound = errors.New("seat assignment not found")

	// ErrAssignmentNotActive is returned when an operation requires an active assignment
	ErrAssignmentNotActive = errors.New("seat assignment is not active")

	// ErrDuplicateActiveAssignment is returned when the one-active-seat-per-learner
	// constraint is violated at the store level
	ErrDuplicateActiveAssignment = errors.New("learner already has an active seat assignment")

	// ErrPoolInactive is returned when allocating against a deactivated pool
	ErrPoolInactive = errors.New("seat pool is not active")

	// ErrInvalidWindow is returned when a pool validity window is empty or inverted
	ErrInvalidWindow = errors.New("pool validity window end must be after start")
)
