// Package backend provides the key/value store behind the conversation cache.
//
// It defines the Backend interface with two implementations: Memory, a
// process-local store bounded by a whole-backend LRU limit, and Remote, a
// TLS-secured redis client with bounded per-operation timeouts. The active
// backend is chosen once from configuration and injected into consumers.
package backend
