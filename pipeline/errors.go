package pipeline

import "errors"

// Sentinel errors for pipeline operations.
var (
	// ErrHistoryUnavailable is returned under the fail-closed policy when
	// the cache backend cannot serve history.
	ErrHistoryUnavailable = errors.New("pipeline: conversation history unavailable")

	// ErrRetrieval wraps reference-document lookup failures.
	ErrRetrieval = errors.New("pipeline: document retrieval failed")

	// ErrCompletion wraps provider call failures. Not retried here.
	ErrCompletion = errors.New("pipeline: provider completion failed")
)
