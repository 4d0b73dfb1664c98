package ports

import (
	"context"
	"time"
)

// Renderer presents the progress of a scheduler run. Spans are forwarded to it by the
// telemetry bridge, so the scheduler never writes to the terminal itself.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	Start(ctx context.Context) error
	// Stop writes out anything still buffered.
	Stop() error
	Wait() error

	// OnPlanEmit receives the leaf tasks an entry expands to, in run order.
	OnPlanEmit(tasks []string, targets []string)
	// OnTaskStart marks a leaf task as running. parentID is empty for top-level spans.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)
	// OnTaskLog receives stage progress output, possibly cut mid-line.
	OnTaskLog(spanID string, data []byte)
	// OnTaskComplete marks a leaf task as finished; err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
