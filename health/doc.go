// Package health reports readiness of the gateway's collaborators. An
// unavailable cache backend makes the gateway degraded, not dead: the
// pipeline can still answer with empty history.
package health
