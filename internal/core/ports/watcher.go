package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change a watch binding reacts to.
type WatchOp uint8

const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (o WatchOp) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// WatchEvent is one change under a watched source or distribution root.
// Path is absolute.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher reports changes below a set of roots, including directories created after Start.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches every root recursively. A root that does not exist is skipped.
	Start(ctx context.Context, roots ...string) error
	Stop() error
	// Events yields changes until Stop is called.
	Events() iter.Seq[WatchEvent]
}

// PathMatcher reports whether a path belongs to a set of glob patterns.
type PathMatcher interface {
	Match(path string) bool
}
