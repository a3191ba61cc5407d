package models

import (
	"time"

	"seatwise/internal/shared/constants"
)

// FeatureGrantModel represents the database persistence model for
// organizational feature grants.
type FeatureGrantModel struct {
	ID             uint      `gorm:"primarykey"`
	OrganizationID uint      `gorm:"not null;index:idx_org_feature,priority:1"`
	FeatureKey     string    `gorm:"not null;size:100;index:idx_org_feature,priority:2"`
	Tier           *string   `gorm:"size:10;comment:NULL covers every grade band"`
	WindowStart    time.Time `gorm:"not null"`
	WindowEnd      time.Time `gorm:"not null;index:idx_grant_window_end"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (FeatureGrantModel) TableName() string {
	return constants.TableFeatureGrants
}
