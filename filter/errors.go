package filter

import "errors"

// Sentinel errors for rule compilation.
var (
	// ErrEmptyName is returned when a rule has no name.
	ErrEmptyName = errors.New("filter: rule name is empty")

	// ErrDuplicateName is returned when two rules share a name.
	ErrDuplicateName = errors.New("filter: duplicate rule name")

	// ErrBadPattern is returned when a rule pattern does not compile.
	ErrBadPattern = errors.New("filter: pattern does not compile")
)
