// Package linear renders task progress as plain chronological lines.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// Renderer implements ports.Renderer. Lifecycle lines go to stderr and stage progress
// goes to stdout, each prefixed with the task name.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	term   *termenv.Output

	mu    sync.Mutex
	runs  int
	tasks map[string]*task // by span ID
}

type task struct {
	name    string
	started time.Time
	pending []byte
}

// NewRenderer creates a Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		term:   output.NewWithProfile(stderr, output.ColorProfileANSI),
		tasks:  make(map[string]*task),
	}
}

// Start is a no-op; lines are written as events arrive.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop writes out partial progress lines of tasks that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		r.flushLocked(t)
	}
	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the leaf sequence an entry expands to. Runs after the first one in
// the same process are rebuilds triggered by the watch loop and are numbered.
func (r *Renderer) OnPlanEmit(tasks []string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs++
	label := strings.Join(targets, ", ")
	if r.runs > 1 {
		label = fmt.Sprintf("%s (rebuild %d)", label, r.runs-1)
	}
	arrow := " " + style.Arrow + " "
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n",
		r.term.String(label+":").Bold().String(), strings.Join(tasks, arrow))
}

// OnTaskStart prints a task start line.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &task{name: name, started: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s started\n", r.term.String(prefix(name)).Faint().String())
}

// OnTaskLog prints complete progress lines and keeps the trailing partial line.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[spanID]
	if !ok {
		return
	}

	t.pending = append(t.pending, data...)
	for {
		i := bytes.IndexByte(t.pending, '\n')
		if i < 0 {
			break
		}
		r.printLocked(t.name, t.pending[:i])
		t.pending = t.pending[i+1:]
	}
}

// OnTaskComplete flushes the task's progress and prints its outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)
	r.flushLocked(t)

	took := endTime.Sub(t.started).Round(time.Millisecond)
	if err != nil {
		mark := r.term.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", prefix(t.name), mark, took, err)
		return
	}
	mark := r.term.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", prefix(t.name), mark, took)
}

// flushLocked must be called with r.mu held.
func (r *Renderer) flushLocked(t *task) {
	if len(t.pending) > 0 {
		r.printLocked(t.name, t.pending)
		t.pending = nil
	}
}

// printLocked must be called with r.mu held.
func (r *Renderer) printLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix(name), line)
}

func prefix(name string) string {
	return "[" + name + "]"
}
