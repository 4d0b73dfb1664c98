package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/httpserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/livereload" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/kiln/internal/engine/watchloop"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// serveFunc returns the action of the serve leaf. The serving state is entered at most
// once per App; a second attempt fails with domain.ErrAlreadyServing.
func (a *App) serveFunc(
	cfg domain.Config,
	paths *domain.Paths,
	graph *domain.Graph,
	sched *scheduler.Scheduler,
) scheduler.ServeFunc {
	return func(ctx context.Context) error {
		if !a.serving.CompareAndSwap(false, true) {
			return domain.ErrAlreadyServing
		}

		src := filepath.Clean(paths.Abs(paths.SourceRoot()))
		dist := filepath.Clean(paths.Abs(paths.DistRoot()))
		if err := os.MkdirAll(dist, domain.OutputDirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", dist)
		}

		hub := livereload.NewHub(a.metrics, a.logger)
		defer hub.Shutdown()

		loop := watchloop.New(a.watcher, cfg.Watch.Delay, a.logger)
		for _, b := range domain.WatchBindings(paths) {
			matcher, err := fs.NewMatcher(b.Patterns)
			if err != nil {
				return err
			}
			loop.Bind(watchloop.Binding{
				Name:    b.Name,
				Matcher: matcher,
				Handler: a.bindingHandler(b, graph, sched, hub),
			})
		}

		srv := httpserver.New(cfg.Server.Addr(), dist, hub, a.metrics, a.logger)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(ctx)
		})
		g.Go(func() error {
			return loop.Run(ctx, src, dist)
		})
		return g.Wait()
	}
}

// bindingHandler reloads browsers for the reload binding and rebuilds the bound entry
// otherwise. Rebuilds never re-enter the serving state.
func (a *App) bindingHandler(
	b domain.WatchBinding,
	graph *domain.Graph,
	sched *scheduler.Scheduler,
	reloader ports.Reloader,
) watchloop.Handler {
	if b.Reload {
		return func(_ context.Context, paths []string) error {
			reloader.Reload(paths)
			return nil
		}
	}
	return func(ctx context.Context, _ []string) error {
		return sched.Run(ctx, graph, b.Entry, nil)
	}
}
