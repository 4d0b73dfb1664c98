// Package watchloop turns file system events into debounced, serialized handler calls.
package watchloop

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Handler reacts to a debounced batch of changed paths.
type Handler func(ctx context.Context, paths []string) error

// Binding ties the paths a matcher accepts to a handler.
type Binding struct {
	Name    string
	Matcher ports.PathMatcher
	Handler Handler
}

type firing struct {
	binding int
	paths   []string
}

// Loop drains watcher events into per-binding debouncers and runs handlers one at a time.
type Loop struct {
	watcher  ports.Watcher
	logger   ports.Logger
	delay    time.Duration
	bindings []Binding
}

// New creates a new Loop. Events for one binding are coalesced over delay.
func New(w ports.Watcher, delay time.Duration, log ports.Logger) *Loop {
	return &Loop{
		watcher: w,
		logger:  log,
		delay:   delay,
	}
}

// Bind registers a binding. It must be called before Run.
func (l *Loop) Bind(b Binding) {
	l.bindings = append(l.bindings, b)
}

// Run watches roots until ctx is done. Handler errors are logged and the binding stays
// registered.
func (l *Loop) Run(ctx context.Context, roots ...string) error {
	if err := l.watcher.Start(ctx, roots...); err != nil {
		return err
	}
	defer func() { _ = l.watcher.Stop() }()

	fired := make(chan firing)
	debouncers := make([]*Debouncer, len(l.bindings))
	for i := range l.bindings {
		debouncers[i] = NewDebouncer(l.delay, func(paths []string) {
			select {
			case fired <- firing{binding: i, paths: paths}:
			case <-ctx.Done():
			}
		})
	}
	defer func() {
		for _, d := range debouncers {
			d.Stop()
		}
	}()

	events := make(chan ports.WatchEvent)
	go func() {
		defer close(events)
		for ev := range l.watcher.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			for i, b := range l.bindings {
				if b.Matcher.Match(ev.Path) {
					debouncers[i].Add(ev.Path)
				}
			}
		case f := <-fired:
			l.dispatch(ctx, f)
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, f firing) {
	b := l.bindings[f.binding]
	if err := b.Handler(ctx, f.paths); err != nil {
		if ctx.Err() != nil {
			return
		}
		l.logger.Error(zerr.With(err, "binding", b.Name))
	}
}
