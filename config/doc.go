// Package config loads and validates the gateway's YAML configuration.
//
// Configuration is resolved once at startup and treated as read-only for
// the process lifetime. Every validation failure here is fatal: the
// service must not begin serving with a malformed filter pattern, an
// unresolvable provider/model reference, or an incomplete cache backend.
package config
