package reconciliation

import (
	"context"
	"time"
)

// OverlapRepository defines persistence operations for overlap records.
type OverlapRepository interface {
	// Upsert inserts the overlap or refreshes the existing row keyed by
	// (learner, feature, period start). Re-running a scan over the same
	// period must not duplicate rows.
	Upsert(ctx context.Context, overlap *CoverageOverlap) error

	// ListByOrganization returns overlaps detected since the given time.
	ListByOrganization(ctx context.Context, organizationID uint, since time.Time) ([]*CoverageOverlap, error)
}
