package watcher

import "github.com/fsnotify/fsnotify"

// ConvertEventForTest exposes convertEvent.
func ConvertEventForTest(name string, op fsnotify.Op) (string, int, bool) {
	ev, ok := convertEvent(fsnotify.Event{Name: name, Op: op})
	return ev.Path, int(ev.Operation), ok
}
