package coverage

import "errors"

var (
	// ErrLearnerNotFound is returned when a learner is unknown to the roster
	ErrLearnerNotFound = errors.New("learner not found")

	// ErrGrantNotFound is returned when a feature grant is not found
	ErrGrantNotFound = errors.New("feature grant not found")

	// ErrProviderUnavailable is returned when the subscription collaborator
	// cannot be reached; transient, safe to retry with backoff
	ErrProviderUnavailable = errors.New("subscription provider unavailable")

	// ErrCurrencyMismatch is returned when amounts in different currencies
	// are combined
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
