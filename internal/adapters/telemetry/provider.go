package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

// InstrumentationName names the tracer kiln creates its spans with.
const InstrumentationName = "go.trai.ch/kiln"

// OTelTracer implements ports.Tracer on an OpenTelemetry TracerProvider.
// Span output is batched and streamed to the renderer, when one is set.
type OTelTracer struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer from provider.
func NewOTelTracer(provider trace.TracerProvider) *OTelTracer {
	return &OTelTracer{tracer: provider.Tracer(InstrumentationName)}
}

// WithRenderer sets the renderer that receives span output and plans.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.renderer
}

// Start creates a new span with the configured attributes.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	s := &OTelSpan{span: span}
	for k, v := range cfg.Attributes {
		s.SetAttribute(k, v)
	}

	if r := t.currentRenderer(); r != nil {
		spanID := span.SpanContext().SpanID().String()
		s.batcher = NewProgressBatcher(0, 0, func(data []byte) {
			r.OnTaskLog(spanID, data)
		})
	}

	return ctx, s
}

// EmitPlan records the plan on the current span and forwards it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, taskNames []string, targets []string) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("tasks", taskNames),
			attribute.StringSlice("targets", targets),
		))
	}

	if r := t.currentRenderer(); r != nil {
		r.OnPlanEmit(taskNames, targets)
	}
}

// OTelSpan implements ports.Span on an OpenTelemetry span.
type OTelSpan struct {
	span    trace.Span
	batcher *ProgressBatcher
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records err and marks the span failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write streams p to the renderer, or records it as a span event without one.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
