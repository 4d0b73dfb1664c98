package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bridge is a SpanProcessor that reports span lifecycles to a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a Bridge reporting to renderer. A nil renderer drops every span.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports a task start.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if p := trace.SpanFromContext(parent).SpanContext(); p.IsValid() {
		parentID = p.SpanID().String()
	}

	b.renderer.OnTaskStart(sc.SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd reports a task completion, turning an error status into an error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if status := s.Status(); status.Code == codes.Error {
		err = domain.ErrTaskExecutionFailed
		if status.Description != "" {
			err = zerr.New(status.Description)
		}
	}

	b.renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// NewProvider returns a TracerProvider whose only processor is the bridge to renderer.
func NewProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)
}
