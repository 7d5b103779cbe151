package health

import (
	"context"
	"sync"
)

// Aggregator runs a set of checkers and reduces their results to one
// overall status: the worst individual status wins.
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an aggregator over the given checkers.
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// Add registers another checker.
func (a *Aggregator) Add(c Checker) {
	a.mu.Lock()
	a.checkers = append(a.checkers, c)
	a.mu.Unlock()
}

// Report holds one aggregated health snapshot.
type Report struct {
	Overall Status
	Results map[string]Result
}

// Check runs all checkers sequentially and aggregates their results.
func (a *Aggregator) Check(ctx context.Context) Report {
	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	report := Report{
		Overall: StatusHealthy,
		Results: make(map[string]Result, len(checkers)),
	}
	for _, c := range checkers {
		result := c.Check(ctx)
		report.Results[c.Name()] = result
		if result.Status > report.Overall {
			report.Overall = result.Status
		}
	}
	return report
}
