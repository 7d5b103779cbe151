package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps OpenTelemetry tracing with query-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for handling one query.
	StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with query metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("query.provider", meta.Provider),
		attribute.String("query.model", meta.Model),
	}
	if meta.ConversationID != "" {
		attrs = append(attrs, attribute.String("query.conversation_id", meta.ConversationID))
	}

	return t.tracer.Start(ctx, "query.handle",
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Ensure tracerImpl implements Tracer
var _ Tracer = (*tracerImpl)(nil)
