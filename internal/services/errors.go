// internal/services/errors.go
package services

import "errors"

// Every public operation returns either nil or exactly one of these kinds.
// Validation errors are detected before any side effect; a payment failure
// aborts the whole operation with no residual state change.
var (
	ErrUnauthorized           = errors.New("caller is not authorized as the named principal")
	ErrAssetAlreadyRegistered = errors.New("asset is already registered")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrExclusiveAlreadyIssued = errors.New("an exclusive license is already outstanding")
	ErrActiveLicensesExist    = errors.New("active non-exclusive licenses exist")
	ErrLicenseAlreadyExists   = errors.New("an active license already exists for this licensee")
	ErrLicenseNotFound        = errors.New("license not found")
	ErrInsufficientFunds      = errors.New("insufficient balance")

	// ErrInvariantViolated marks a state that is unreachable while the
	// exclusivity invariants hold, such as an active-license counter
	// decrement at zero. It is never a user error.
	ErrInvariantViolated = errors.New("internal invariant violated")
)
