package migration

import (
	"seatwise/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.LearnerModel{},
		&models.SeatPoolModel{},
		&models.SeatAssignmentModel{},
		&models.FeatureGrantModel{},
		&models.CoverageOverlapModel{},
	}
}
