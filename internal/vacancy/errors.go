package vacancy

import "errors"

// Sentinel errors reported by the lifecycle service. Callers distinguish
// them with errors.Is; both indicate that no mutation took place.
var (
	// ErrNotFound indicates the referenced vacancy does not exist.
	ErrNotFound = errors.New("vacancy not found")

	// ErrInvalidTransition indicates the requested status change is not a
	// legal transition from the vacancy's current status.
	ErrInvalidTransition = errors.New("invalid vacancy status transition")
)
