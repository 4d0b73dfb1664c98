package ports

import (
	"net/http"
	"time"
)

// Reloader notifies connected browsers that the served output changed.
//
//go:generate mockgen -source=reload.go -destination=mocks/mock_reload.go -package=mocks
type Reloader interface {
	// Reload broadcasts a reload for the changed paths. It never blocks on slow clients.
	Reload(paths []string)
}

// Metrics records build and serving measurements.
type Metrics interface {
	// ObserveTask records one leaf task run and its outcome.
	ObserveTask(name string, d time.Duration, err error)
	// IncReload counts one reload broadcast.
	IncReload()
	// SetClients records the number of connected reload clients.
	SetClients(n int)
	// Handler exposes the collected metrics over HTTP.
	Handler() http.Handler
}
