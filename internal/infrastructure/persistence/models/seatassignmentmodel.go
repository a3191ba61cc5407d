package models

import (
	"time"

	"seatwise/internal/shared/constants"
)

// SeatAssignmentModel represents the database persistence model for seat
// assignments. ActiveLearnerID mirrors LearnerID while the assignment is
// active and goes NULL when it ends; the unique index on it is what enforces
// one active assignment per learner under concurrency.
type SeatAssignmentModel struct {
	ID                uint   `gorm:"primarykey"`
	SID               string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: seat_xxx"`
	LearnerID         uint   `gorm:"not null;index:idx_learner"`
	ActiveLearnerID   *uint  `gorm:"uniqueIndex:uidx_active_learner"`
	PoolID            uint   `gorm:"not null;index:idx_pool"`
	SchoolID          *uint  `gorm:"index:idx_school"`
	Tier              string `gorm:"not null;size:10"`
	IsOverage         bool   `gorm:"not null;default:false"`
	Status            string `gorm:"not null;size:20;index:idx_status"`
	TransferredFromID *uint
	EndedAt           *time.Time
	EndedReason       *string `gorm:"size:500"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (SeatAssignmentModel) TableName() string {
	return constants.TableSeatAssignments
}
