package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrProfileNotFound = errors.New("profile not found")

	// Quota
	ErrQuotaExceeded = errors.New("daily generation quota exceeded")

	// Activation codes
	ErrCodeNotFound    = errors.New("activation code not found")
	ErrCodeAlreadyUsed = errors.New("activation code already used")
	// ErrTierUpgradeOrphan is fatal: the code was consumed but the tier
	// update did not land. Operator remediation required, never retried.
	ErrTierUpgradeOrphan = errors.New("code claimed but tier upgrade failed")

	// Generation provider
	ErrUpstreamThrottled   = errors.New("generation provider throttled")
	ErrUpstreamExhausted   = errors.New("generation provider quota exhausted")
	ErrUpstreamUnavailable = errors.New("generation provider unavailable")
	ErrEmptyCompletion     = errors.New("generation provider returned no content")

	// Persistence
	ErrNothingPersisted = errors.New("no sheet could be persisted")
)
