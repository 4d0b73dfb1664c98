package watchloop

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces rapid file system events into one batch per quiet window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add adds a file path to the pending set and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// drain returns the pending paths in sorted order and clears the set. d.mu must be held.
func (d *Debouncer) drain() []string {
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	slices.Sort(paths)
	d.pending = make(map[unique.Handle[string]]struct{})
	return paths
}

func (d *Debouncer) fire() {
	d.mu.Lock()

	// Flush may have emptied the set already.
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	paths := d.drain()
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback(paths)
	}
}

// Flush immediately triggers the callback with all pending paths and blocks until it returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Stop cancels a pending window without running the callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[unique.Handle[string]]struct{})
}
