package telemetry

import (
	"context"

	"go.trai.ch/kiln/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that records nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns ctx and a span that discards everything.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, &NoOpSpan{}
}

// EmitPlan does nothing.
func (t *NoOpTracer) EmitPlan(_ context.Context, _, _ []string) {}

// NoOpSpan is a ports.Span that discards everything.
type NoOpSpan struct{}

// End does nothing.
func (s *NoOpSpan) End() {}

// RecordError does nothing.
func (s *NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (s *NoOpSpan) SetAttribute(_ string, _ any) {}

// Write discards p.
func (s *NoOpSpan) Write(p []byte) (n int, err error) {
	return len(p), nil
}
