package models

import (
	"time"

	"seatwise/internal/shared/constants"
)

// LearnerModel represents the database persistence model for the learner
// roster. HasIndividualCoverage is a synced flag from the subscription
// provider used to pre-filter reconciliation scans.
type LearnerModel struct {
	ID                    uint   `gorm:"primarykey"`
	OrganizationID        uint   `gorm:"not null;index:idx_learner_org"`
	SchoolID              *uint  `gorm:"index:idx_learner_school"`
	Tier                  string `gorm:"not null;size:10"`
	HasIndividualCoverage bool   `gorm:"not null;default:false;index:idx_individual_coverage"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (LearnerModel) TableName() string {
	return constants.TableLearners
}
