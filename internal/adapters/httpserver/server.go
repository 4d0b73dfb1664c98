// Package httpserver serves the distribution directory with live reload and metrics.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/kiln/internal/adapters/livereload"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// MetricsPath is the route the Prometheus handler is mounted on.
const MetricsPath = "/__kiln/metrics"

const shutdownTimeout = 5 * time.Second

// Server is the development server.
type Server struct {
	addr    string
	handler http.Handler
	logger  ports.Logger
}

// New returns a Server on addr that serves root, streams hub events, and exposes metrics.
// metrics may be nil.
func New(addr, root string, hub http.Handler, metrics ports.Metrics, log ports.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(livereload.EventsPath, hub)
	mux.HandleFunc(livereload.ScriptPath, livereload.ServeScript)
	if metrics != nil {
		mux.Handle(MetricsPath, metrics.Handler())
	}
	mux.Handle("/", noCache(livereload.Inject(http.FileServer(http.Dir(root)))))

	return &Server{addr: addr, handler: mux, logger: log}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("serving on http://" + ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}
