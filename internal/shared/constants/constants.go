// Package constants defines application-wide constant values.
package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyAdminID   = "admin_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableSeatPools        = "seat_pools"
	TableSeatAssignments  = "seat_assignments"
	TableFeatureGrants    = "feature_grants"
	TableCoverageOverlaps = "coverage_overlaps"
	TableLearners         = "learners"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgValidationFailed    = "Validation failed"
)
