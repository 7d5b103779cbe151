package backend

import "errors"

// Sentinel errors for backend operations.
var (
	// ErrUnavailable is returned when the backend cannot be reached or an
	// operation exceeds its timeout. Distinct from a miss: Get reports a
	// miss as (nil, false, nil).
	ErrUnavailable = errors.New("backend: unavailable")

	// ErrInvalidKey is returned when a key is empty, blank, or contains
	// control characters.
	ErrInvalidKey = errors.New("backend: key is invalid")

	// ErrKeyTooLong is returned when a key exceeds MaxKeyLength.
	ErrKeyTooLong = errors.New("backend: key exceeds max length")

	// ErrBadConfig is returned when a backend cannot be constructed from
	// its configuration.
	ErrBadConfig = errors.New("backend: invalid configuration")
)
