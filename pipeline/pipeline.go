package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/jonwraymond/queryops/backend"
	"github.com/jonwraymond/queryops/conversation"
	"github.com/jonwraymond/queryops/filter"
	"github.com/jonwraymond/queryops/observe"
	"github.com/jonwraymond/queryops/provider"
	"github.com/jonwraymond/queryops/retrieve"
)

// DegradePolicy decides what happens when conversation history cannot be
// read because the backend is unavailable.
type DegradePolicy int

const (
	// DegradeEmptyHistory proceeds with no history. Availability over
	// completeness; the default.
	DegradeEmptyHistory DegradePolicy = iota

	// FailClosed fails the request instead of answering without context.
	FailClosed
)

// DefaultMaxConcurrentCompletions bounds in-flight provider calls when
// no limit is configured.
const DefaultMaxConcurrentCompletions = 32

// Config holds pipeline policy knobs resolved once at startup.
type Config struct {
	// Degrade selects the history-unavailable policy.
	Degrade DegradePolicy

	// MaxConcurrentCompletions bounds simultaneous provider calls.
	MaxConcurrentCompletions int64

	// Temperature is passed through to the provider.
	Temperature float64
}

// Pipeline handles queries. All fields are set at construction and
// read-only afterwards; per-conversation state lives in the cache.
type Pipeline struct {
	rules     []filter.CompiledRule
	history   *conversation.Cache
	retriever retrieve.Retriever
	registry  *provider.Registry
	cfg       Config
	sem       *semaphore.Weighted
	logger    observe.Logger
	metrics   observe.Metrics
	tracer    observe.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver wires the pipeline's telemetry from an Observer.
func WithObserver(obs observe.Observer) Option {
	return func(p *Pipeline) {
		p.logger = obs.Logger()
		p.metrics = obs.Metrics()
		p.tracer = obs.Tracer()
	}
}

// New assembles a pipeline. The rule list must already be compiled (a
// malformed pattern never gets this far) and the registry already
// validated against the configured default reference.
func New(rules []filter.CompiledRule, history *conversation.Cache, retriever retrieve.Retriever,
	registry *provider.Registry, cfg Config, opts ...Option) *Pipeline {

	if cfg.MaxConcurrentCompletions <= 0 {
		cfg.MaxConcurrentCompletions = DefaultMaxConcurrentCompletions
	}
	if retriever == nil {
		retriever = retrieve.Nop{}
	}

	p := &Pipeline{
		rules:     rules,
		history:   history,
		retriever: retriever,
		registry:  registry,
		cfg:       cfg,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrentCompletions),
		logger:    observe.NopLogger(),
		metrics:   observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle answers one query for the given conversation.
//
// Failure modes, in step order: filtering cannot fail; an unavailable
// backend degrades or fails per policy; retrieval failures wrap
// ErrRetrieval; provider failures wrap ErrCompletion and are not retried;
// append failures after the answer exists are logged and swallowed.
func (p *Pipeline) Handle(ctx context.Context, conversationID, rawQuery string, ref provider.ModelRef) (answer string, err error) {
	meta := observe.QueryMeta{
		ConversationID: conversationID,
		Provider:       ref.Provider,
		Model:          ref.Model,
	}
	logger := p.logger.WithQuery(meta)

	start := time.Now()
	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.StartSpan(ctx, meta)
		defer func() { p.tracer.EndSpan(span, err) }()
	}
	defer func() {
		p.metrics.RecordQuery(ctx, meta, time.Since(start), err)
	}()

	client, err := p.registry.Resolve(ref)
	if err != nil {
		// Defense against callers that skipped load-time validation.
		return "", err
	}

	filtered := filter.Apply(p.rules, rawQuery)
	logger.Debug(ctx, "query filtered",
		observe.Field{Key: "raw_query", Value: rawQuery},
		observe.Field{Key: "filtered_query", Value: filtered},
	)

	history, err := p.history.History(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, backend.ErrUnavailable) {
			return "", err
		}
		if p.cfg.Degrade == FailClosed {
			return "", fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
		}
		p.metrics.RecordHistoryDegrade(ctx, meta)
		logger.Warn(ctx, "cache backend unavailable, proceeding with empty history",
			observe.Field{Key: "error", Value: err.Error()},
		)
		history = nil
	}

	documents, err := p.retriever.Retrieve(ctx, filtered)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	answer, err = p.complete(ctx, client, provider.Request{
		Query:       filtered,
		History:     history,
		Documents:   documents,
		Model:       ref.Model,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	// Two sequential appends, not a combined write. The answer already
	// exists; a backend that died mid-request costs us history, not the
	// response.
	p.record(ctx, logger, meta, conversationID, conversation.RoleUser, filtered)
	p.record(ctx, logger, meta, conversationID, conversation.RoleAssistant, answer)

	return answer, nil
}

// complete calls the provider under the concurrency limiter, honoring
// caller cancellation while waiting for a slot.
func (p *Pipeline) complete(ctx context.Context, client provider.Provider, req provider.Request) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	defer p.sem.Release(1)

	answer, err := client.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	return answer, nil
}

func (p *Pipeline) record(ctx context.Context, logger observe.Logger, meta observe.QueryMeta,
	conversationID string, role conversation.Role, text string) {

	if _, err := p.history.Append(ctx, conversationID, role, text); err != nil {
		p.metrics.RecordAppendFailure(ctx, meta)
		logger.Error(ctx, "failed to record conversation turn",
			observe.Field{Key: "role", Value: string(role)},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
}
