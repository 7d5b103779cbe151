package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records gateway execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic and must return quickly.
type Metrics interface {
	// RecordQuery records one handled query with duration and error status.
	RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error)

	// RecordHistoryDegrade records a request that proceeded with empty
	// history because the cache backend was unavailable.
	RecordHistoryDegrade(ctx context.Context, meta QueryMeta)

	// RecordEvictionRace records an index/entry divergence observed while
	// reading history.
	RecordEvictionRace(ctx context.Context, conversationID string)

	// RecordAppendFailure records a conversation append that failed after
	// the answer was already produced.
	RecordAppendFailure(ctx context.Context, meta QueryMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	queryTotal    metric.Int64Counter
	queryErrors   metric.Int64Counter
	queryDuration metric.Float64Histogram
	degrades      metric.Int64Counter
	evictionRaces metric.Int64Counter
	appendFails   metric.Int64Counter
}

// newMetrics creates a Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	queryTotal, err := meter.Int64Counter(
		"query.handled.total",
		metric.WithDescription("Total number of handled queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	queryErrors, err := meter.Int64Counter(
		"query.handled.errors",
		metric.WithDescription("Total number of failed queries"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	queryDuration, err := meter.Float64Histogram(
		"query.handled.duration_ms",
		metric.WithDescription("Query handling duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	degrades, err := meter.Int64Counter(
		"cache.history.degrades",
		metric.WithDescription("Requests served with empty history due to backend unavailability"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	evictionRaces, err := meter.Int64Counter(
		"cache.history.eviction_races",
		metric.WithDescription("Index entries missing from the backend during history reads"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	appendFails, err := meter.Int64Counter(
		"cache.append.failures",
		metric.WithDescription("Conversation appends that failed after answer production"),
		metric.WithUnit("{append}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		queryTotal:    queryTotal,
		queryErrors:   queryErrors,
		queryDuration: queryDuration,
		degrades:      degrades,
		evictionRaces: evictionRaces,
		appendFails:   appendFails,
	}, nil
}

func queryAttrs(meta QueryMeta) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("provider", meta.Provider),
		attribute.String("model", meta.Model),
	)
}

func (m *metricsImpl) RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error) {
	opt := queryAttrs(meta)
	m.queryTotal.Add(ctx, 1, opt)
	if err != nil {
		m.queryErrors.Add(ctx, 1, opt)
	}
	m.queryDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordHistoryDegrade(ctx context.Context, meta QueryMeta) {
	m.degrades.Add(ctx, 1, queryAttrs(meta))
}

func (m *metricsImpl) RecordEvictionRace(ctx context.Context, conversationID string) {
	m.evictionRaces.Add(ctx, 1)
}

func (m *metricsImpl) RecordAppendFailure(ctx context.Context, meta QueryMeta) {
	m.appendFails.Add(ctx, 1, queryAttrs(meta))
}

// NopMetrics returns a Metrics recorder that does nothing. Used as the
// default when no recorder is injected.
func NopMetrics() Metrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error) {
}
func (nopMetrics) RecordHistoryDegrade(ctx context.Context, meta QueryMeta)      {}
func (nopMetrics) RecordEvictionRace(ctx context.Context, conversationID string) {}
func (nopMetrics) RecordAppendFailure(ctx context.Context, meta QueryMeta)       {}

// Ensure both implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = nopMetrics{}
)
