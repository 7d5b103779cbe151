package backend

import (
	"context"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a backend key.
const MaxKeyLength = 512

// Backend is the key/value capability behind the conversation cache.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines; remote
//   implementations bound every operation by a configured timeout.
// - Errors: Get reports a miss as (nil, false, nil). A timeout or
//   connection failure is reported as an error wrapping ErrUnavailable,
//   never as a miss.
type Backend interface {
	// Get retrieves the value for key. Returns (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key with upsert semantics.
	Put(ctx context.Context, key string, value []byte) error

	// Evict removes key. Idempotent: evicting an absent key is not an error.
	Evict(ctx context.Context, key string) error
}

// ValidateKey checks that a key is usable with any backend.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
