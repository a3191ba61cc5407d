package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeAssignment(t *testing.T) *SeatAssignment {
	t.Helper()
	assignment, err := NewSeatAssignment(100, 1, nil, Tier35, false, nil)
	require.NoError(t, err)
	return assignment
}

func TestNewSeatAssignment_ValidInput(t *testing.T) {
	assignment := activeAssignment(t)

	assert.NotEmpty(t, assignment.SID())
	assert.Equal(t, AssignmentStatusActive, assignment.Status())
	assert.True(t, assignment.IsActive())
	assert.Nil(t, assignment.EndedAt())
}

func TestNewSeatAssignment_ZeroLearner(t *testing.T) {
	assignment, err := NewSeatAssignment(0, 1, nil, Tier35, false, nil)

	assert.Error(t, err)
	assert.Nil(t, assignment)
}

func TestSeatAssignment_MarkRevoked(t *testing.T) {
	assignment := activeAssignment(t)

	require.NoError(t, assignment.MarkRevoked("left district"))

	assert.Equal(t, AssignmentStatusRevoked, assignment.Status())
	require.NotNil(t, assignment.EndedAt())
	require.NotNil(t, assignment.EndedReason())
	assert.Equal(t, "left district", *assignment.EndedReason())
}

func TestSeatAssignment_EndTransitionsFromEndedStateRejected(t *testing.T) {
	assignment := activeAssignment(t)
	require.NoError(t, assignment.MarkRevoked("left district"))

	err := assignment.MarkExpired("pool closed")

	assert.ErrorIs(t, err, ErrAssignmentNotActive)
}

func TestSeatAssignment_SameStateEndIsNoOp(t *testing.T) {
	assignment := activeAssignment(t)
	require.NoError(t, assignment.MarkTransferred("grade band change"))

	assert.NoError(t, assignment.MarkTransferred("grade band change"))
	assert.Equal(t, AssignmentStatusTransferred, assignment.Status())
}

func TestSeatAssignment_OverageFlagImmutable(t *testing.T) {
	assignment, err := NewSeatAssignment(100, 1, nil, Tier35, true, nil)
	require.NoError(t, err)

	require.NoError(t, assignment.MarkRevoked("left district"))

	// The overage flag is captured at grant time and never changes.
	assert.True(t, assignment.IsOverage())
}
