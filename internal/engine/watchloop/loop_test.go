package watchloop_test

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/watchloop"
	"go.uber.org/mock/gomock"
)

type prefixMatcher string

func (p prefixMatcher) Match(path string) bool {
	return strings.HasPrefix(path, string(p))
}

type calls struct {
	mu    sync.Mutex
	names []string
	paths [][]string
}

func (c *calls) handler(name string, err error) watchloop.Handler {
	return func(_ context.Context, paths []string) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.names = append(c.names, name)
		c.paths = append(c.paths, paths)
		return err
	}
}

func (c *calls) get() ([]string, [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...), append([][]string(nil), c.paths...)
}

func newWatcher(t *testing.T, events chan ports.WatchEvent) *mocks.MockWatcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	w.EXPECT().Start(gomock.Any(), "/site/src", "/site/dist").Return(nil)
	w.EXPECT().Stop().Return(nil)
	w.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	return w
}

func TestLoop_DispatchesPerBinding(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		w := newWatcher(t, events)
		logger := mocks.NewMockLogger(gomock.NewController(t))

		var c calls
		loop := watchloop.New(w, 200*time.Millisecond, logger)
		loop.Bind(watchloop.Binding{Name: "style", Matcher: prefixMatcher("/site/src/sass/"), Handler: c.handler("style", nil)})
		loop.Bind(watchloop.Binding{Name: "reload", Matcher: prefixMatcher("/site/dist/"), Handler: c.handler("reload", nil)})

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx, "/site/src", "/site/dist") }()

		events <- ports.WatchEvent{Path: "/site/src/sass/b.sass", Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: "/site/src/sass/a.sass", Operation: ports.OpCreate}
		events <- ports.WatchEvent{Path: "/site/src/unrelated.txt", Operation: ports.OpWrite}

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		names, _ := c.get()
		assert.Empty(t, names)

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		events <- ports.WatchEvent{Path: "/site/dist/css/styles.min.css", Operation: ports.OpWrite}
		time.Sleep(250 * time.Millisecond)
		synctest.Wait()

		names, paths := c.get()
		require.Equal(t, []string{"style", "reload"}, names)
		assert.Equal(t, []string{"/site/src/sass/a.sass", "/site/src/sass/b.sass"}, paths[0])
		assert.Equal(t, []string{"/site/dist/css/styles.min.css"}, paths[1])

		cancel()
		close(events)
		require.NoError(t, <-done)
	})
}

func TestLoop_HandlerErrorIsLogged(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		w := newWatcher(t, events)
		logger := mocks.NewMockLogger(gomock.NewController(t))

		boom := errors.New("rebuild failed")
		logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
			assert.ErrorContains(t, err, "rebuild failed")
		}).Times(2)

		var c calls
		loop := watchloop.New(w, 50*time.Millisecond, logger)
		loop.Bind(watchloop.Binding{Name: "html", Matcher: prefixMatcher("/site/src/"), Handler: c.handler("html", boom)})

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx, "/site/src", "/site/dist") }()

		events <- ports.WatchEvent{Path: "/site/src/index.html", Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		// The binding stays registered after a failure.
		events <- ports.WatchEvent{Path: "/site/src/index.html", Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		names, _ := c.get()
		assert.Equal(t, []string{"html", "html"}, names)

		cancel()
		close(events)
		require.NoError(t, <-done)
	})
}

func TestLoop_StartError(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	startErr := errors.New("no such directory")
	w.EXPECT().Start(gomock.Any(), "/site/src").Return(startErr)

	loop := watchloop.New(w, time.Millisecond, mocks.NewMockLogger(ctrl))
	err := loop.Run(t.Context(), "/site/src")
	assert.ErrorIs(t, err, startErr)
}
