package health

import (
	"context"
	"time"

	"github.com/jonwraymond/queryops/backend"
)

// pinger is implemented by backends with a native liveness probe.
type pinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker probes the conversation cache backend. Remote backends
// are pinged; others get a write/read/evict round trip on a probe key.
type BackendChecker struct {
	backend backend.Backend
}

// NewBackendChecker creates a checker for the given backend.
func NewBackendChecker(b backend.Backend) *BackendChecker {
	return &BackendChecker{backend: b}
}

// Name identifies the checked component.
func (c *BackendChecker) Name() string { return "conversation-cache-backend" }

// Check probes the backend. An unreachable backend is degraded, not
// unhealthy: the pipeline still answers under the degrade policy.
func (c *BackendChecker) Check(ctx context.Context) Result {
	start := time.Now()
	result := c.probe(ctx)
	result.Duration = time.Since(start)
	return result
}

func (c *BackendChecker) probe(ctx context.Context) Result {
	if p, ok := c.backend.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return Degraded("backend unreachable", err)
		}
		return Healthy("backend reachable")
	}

	const probeKey = "health:probe"
	if err := c.backend.Put(ctx, probeKey, []byte("ok")); err != nil {
		return Degraded("backend write failed", err)
	}
	if _, ok, err := c.backend.Get(ctx, probeKey); err != nil || !ok {
		return Degraded("backend read failed", err)
	}
	if err := c.backend.Evict(ctx, probeKey); err != nil {
		return Degraded("backend evict failed", err)
	}
	return Healthy("backend round trip ok")
}

// Ensure BackendChecker implements Checker
var _ Checker = (*BackendChecker)(nil)
