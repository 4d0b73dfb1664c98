// Package telemetry adapts OpenTelemetry spans to the task renderer.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// ErrBatcherClosed is returned when writing to a closed ProgressBatcher.
var ErrBatcherClosed = zerr.New("progress batcher is closed")

const (
	// DefaultSizeLimit is the buffered size that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultDelay is how long progress may sit in the buffer before it is flushed.
	DefaultDelay = 50 * time.Millisecond
)

// ProgressBatcher buffers a task's progress output and hands it on in whole lines.
// Lines are emitted once the delay after the first buffered write elapses, or as soon as
// the buffer reaches its size limit. A line longer than the limit is emitted unbroken.
// Flush and Close emit everything, including a trailing partial line.
// It is safe for concurrent use.
type ProgressBatcher struct {
	limit int
	delay time.Duration
	emit  func([]byte)

	mu     sync.Mutex
	buf    []byte
	timer  *time.Timer
	closed bool
}

// NewProgressBatcher returns a ProgressBatcher passing batches to emit.
// Non-positive limits select the defaults. emit runs under the batcher's lock and must
// not block.
func NewProgressBatcher(limit int, delay time.Duration, emit func([]byte)) *ProgressBatcher {
	if limit <= 0 {
		limit = DefaultSizeLimit
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &ProgressBatcher{limit: limit, delay: delay, emit: emit}
}

// Write buffers p.
func (b *ProgressBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrBatcherClosed
	}

	b.buf = append(b.buf, p...)
	switch {
	case len(b.buf) >= b.limit:
		b.emitLocked(false)
	case b.timer == nil:
		b.timer = time.AfterFunc(b.delay, b.tick)
	}
	return len(p), nil
}

// Flush emits everything buffered.
func (b *ProgressBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.emitLocked(true)
	}
}

// Close emits everything buffered and rejects further writes.
func (b *ProgressBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.emitLocked(true)
	return nil
}

func (b *ProgressBatcher) tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.timer = nil
	if !b.closed {
		b.emitLocked(false)
	}
}

// emitLocked must be called with b.mu held. Unless all is set, it stops at the last
// newline and keeps the partial line for later.
func (b *ProgressBatcher) emitLocked(all bool) {
	n := len(b.buf)
	if !all {
		n = bytes.LastIndexByte(b.buf, '\n') + 1
		if n == 0 && len(b.buf) >= b.limit {
			n = len(b.buf)
		}
	}
	if n == 0 {
		return
	}

	data := bytes.Clone(b.buf[:n])
	b.buf = append(b.buf[:0], b.buf[n:]...)
	if b.emit != nil {
		b.emit(data)
	}
}
