package models

import (
	"time"

	"gorm.io/datatypes"

	"seatwise/internal/shared/constants"
)

// CoverageOverlapModel represents the database persistence model for detected
// coverage overlaps. The unique index on (learner, feature, period start)
// makes reconciliation re-runs idempotent.
type CoverageOverlapModel struct {
	ID                    uint      `gorm:"primarykey"`
	SID                   string    `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: ovl_xxx"`
	LearnerID             uint      `gorm:"not null;uniqueIndex:uidx_learner_feature_period,priority:1"`
	OrganizationID        uint      `gorm:"not null;index:idx_overlap_org"`
	FeatureKey            string    `gorm:"not null;size:100;uniqueIndex:uidx_learner_feature_period,priority:2"`
	PeriodStart           time.Time `gorm:"not null;uniqueIndex:uidx_learner_feature_period,priority:3"`
	PeriodEnd             time.Time `gorm:"not null"`
	IndividualChargeCents int64     `gorm:"not null;default:0"`
	PotentialCreditCents  int64     `gorm:"not null;default:0"`
	Currency              string    `gorm:"not null;size:3;default:USD"`
	RecommendedAction     string    `gorm:"not null;size:20"`
	Metadata              datatypes.JSON
	DetectedAt            time.Time `gorm:"not null;index:idx_detected_at"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (CoverageOverlapModel) TableName() string {
	return constants.TableCoverageOverlaps
}
