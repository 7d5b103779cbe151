package provider

import "errors"

// Sentinel errors for provider resolution and completion.
var (
	// ErrUnknownProvider is returned when a reference names a provider
	// that is not configured.
	ErrUnknownProvider = errors.New("provider: unknown provider")

	// ErrUnknownModel is returned when a reference names a model the
	// provider does not serve.
	ErrUnknownModel = errors.New("provider: unknown model")

	// ErrDuplicateProvider is returned when two providers register under
	// the same name.
	ErrDuplicateProvider = errors.New("provider: duplicate provider name")

	// ErrCompletionFailed wraps failures from the underlying LLM call.
	ErrCompletionFailed = errors.New("provider: completion failed")
)
