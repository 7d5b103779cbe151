package provider

import (
	"context"

	"github.com/jonwraymond/queryops/conversation"
	"github.com/jonwraymond/queryops/retrieve"
)

// ModelRef names a configured provider/model pair. References are
// resolved against the Registry at configuration load; an unresolvable
// reference is a configuration error, never a runtime branch.
type ModelRef struct {
	Provider string
	Model    string
}

// Request carries everything a provider needs for one completion.
type Request struct {
	// Query is the filtered user query.
	Query string

	// History is the conversation so far, ascending by sequence.
	History []conversation.Entry

	// Documents are retrieved reference documents, best first.
	Documents []retrieve.Document

	// Model is the resolved model name.
	Model string

	// Temperature is the sampling temperature, from dev configuration.
	Temperature float64
}

// Provider is the opaque completion capability.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Complete must honor cancellation; an abandoned request must
//   not leak the in-flight call.
// - Errors: failures are returned as-is; retry policy belongs to the
//   provider client, not its callers.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Static is a canned-response provider for wiring and tests.
type Static struct {
	// Answer is returned for every request.
	Answer string

	// Err, when set, is returned instead.
	Err error
}

// Complete returns the canned answer or error.
func (s *Static) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Answer, nil
}

// Ensure Static implements Provider
var _ Provider = (*Static)(nil)
