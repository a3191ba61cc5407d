package models

import (
	"time"

	"seatwise/internal/shared/constants"
)

// SeatPoolModel represents the database persistence model for seat pools.
// This is the anti-corruption layer between domain and database. The
// allocation counters are mutated only through conditional UPDATEs in the
// repository, never through full-model saves.
type SeatPoolModel struct {
	ID              uint      `gorm:"primarykey"`
	SID             string    `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: pool_xxx"`
	OrganizationID  uint      `gorm:"not null;index:idx_org_tier,priority:1"`
	Tier            string    `gorm:"not null;size:10;index:idx_org_tier,priority:2"`
	ProductSKU      string    `gorm:"not null;size:100"`
	SeatsCommitted  int       `gorm:"not null;default:0"`
	SeatsAllocated  int       `gorm:"not null;default:0"`
	OverageUsed     int       `gorm:"not null;default:0"`
	OverageLimit    int       `gorm:"not null;default:0"`
	EnforcementMode string    `gorm:"not null;size:10;default:hard"`
	WindowStart     time.Time `gorm:"not null"`
	WindowEnd       time.Time `gorm:"not null;index:idx_window_end"`
	Active          bool      `gorm:"not null;default:true;index:idx_active"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (SeatPoolModel) TableName() string {
	return constants.TableSeatPools
}
