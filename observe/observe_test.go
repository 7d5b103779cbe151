package observe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "gateway"},
		},
		{
			name: "unknown tracing exporter",
			cfg: Config{
				ServiceName: "gateway",
				Tracing:     TracingConfig{Enabled: true, Exporter: "zipkin"},
			},
			wantErr: true,
		},
		{
			name: "sample pct out of range",
			cfg: Config{
				ServiceName: "gateway",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5},
			},
			wantErr: true,
		},
		{
			name: "unknown metrics exporter",
			cfg: Config{
				ServiceName: "gateway",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			cfg: Config{
				ServiceName: "gateway",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			wantErr: true,
		},
		{
			name: "all enabled, valid",
			cfg: Config{
				ServiceName: "gateway",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{ServiceName: "gateway"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	// All primitives must be usable no-ops.
	spanCtx, span := obs.Tracer().StartSpan(ctx, QueryMeta{Provider: "p", Model: "m"})
	if spanCtx == nil {
		t.Error("StartSpan returned nil context")
	}
	obs.Tracer().EndSpan(span, errors.New("recorded"))

	obs.Metrics().RecordQuery(ctx, QueryMeta{}, time.Millisecond, nil)
	obs.Metrics().RecordHistoryDegrade(ctx, QueryMeta{})
	obs.Logger().Info(ctx, "ignored")

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	// Shutdown is idempotent.
	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestNewObserver_NoneExporters(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "gateway",
		Version:     "test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer obs.Shutdown(ctx)

	_, span := obs.Tracer().StartSpan(ctx, QueryMeta{ConversationID: "c", Provider: "p", Model: "m"})
	obs.Tracer().EndSpan(span, nil)
	obs.Metrics().RecordQuery(ctx, QueryMeta{Provider: "p", Model: "m"}, 5*time.Millisecond, nil)
	obs.Metrics().RecordEvictionRace(ctx, "c")
	obs.Metrics().RecordAppendFailure(ctx, QueryMeta{Provider: "p", Model: "m"})
}
