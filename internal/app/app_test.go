package app_test

import (
	"bytes"
	"context"
	"io"
	"iter"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cas"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/livereload"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type harness struct {
	root    string
	loader  *mocks.MockConfigLoader
	logger  *mocks.MockLogger
	metrics *mocks.MockMetrics
	watcher *mocks.MockWatcher
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	app     *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		root:    t.TempDir(),
		loader:  mocks.NewMockConfigLoader(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		metrics: mocks.NewMockMetrics(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
		stdout:  new(bytes.Buffer),
		stderr:  new(bytes.Buffer),
	}
	h.metrics.EXPECT().ObserveTask(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	h.metrics.EXPECT().SetClients(gomock.Any()).AnyTimes()
	h.metrics.EXPECT().Handler().Return(http.NotFoundHandler()).AnyTimes()
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	source := fs.NewSource(fs.NewResolver(fs.NewWalker()), h.logger)
	h.app = app.New(h.loader, h.logger, cas.NewStore(), fs.NewHasher(), source, fs.NewSink(), h.metrics, h.watcher).
		WithRoot(h.root).
		WithOutput(h.stdout, h.stderr)
	return h
}

func (h *harness) write(t *testing.T, rel, contents string) {
	t.Helper()
	path := filepath.Join(h.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestApp_Run_HTML(t *testing.T) {
	h := newHarness(t)
	h.write(t, "src/index.html", "<html><body></body></html>\n")
	h.write(t, "src/about.html", "<p>about</p>\n")

	h.loader.EXPECT().Load(filepath.Join(h.root, "kiln.yaml")).Return(domain.DefaultConfig(), nil)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := h.app.Run(context.Background(), domain.EntryHTML, app.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, "<html><body></body></html>\n", h.read(t, "dist/index.html"))
	assert.Equal(t, "<p>about</p>\n", h.read(t, "dist/about.html"))
	assert.Contains(t, h.stderr.String(), "[html:copy]")

	info, err := cas.NewStore().Get(h.root, domain.TaskHTMLCopy)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.ElementsMatch(t, []string{"dist/index.html", "dist/about.html"}, info.Outputs)
	assert.NotEmpty(t, info.OutputHash)
}

func TestApp_Run_Build(t *testing.T) {
	if _, err := exec.LookPath("sass"); err != nil {
		t.Skip("dart sass not installed")
	}

	h := newHarness(t)
	h.write(t, "src/index.html", "<html><body><h1>kiln</h1></body></html>\n")
	h.write(t, "src/sass/_colors.sass", "$brand: #ff6600\n")
	h.write(t, "src/sass/styles.sass", "@use 'colors'\n\nbody\n  color: colors.$brand\n")
	h.write(t, "src/js/scripts.js", "const greet = (name) => console.log(\"hello \" + name);\ngreet(\"kiln\");\n")
	h.write(t, "src/js/libs/jquery.js", "/*! jquery */\n")

	h.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	require.NoError(t, h.app.Run(context.Background(), domain.EntryBuild, app.RunOptions{}))

	assert.Equal(t, "<html><body><h1>kiln</h1></body></html>\n", h.read(t, "dist/index.html"))
	css := h.read(t, "dist/css/styles.min.css")
	assert.Contains(t, css, "color:#f60")
	assert.Contains(t, css, "sourceMappingURL=data:application/json")
	assert.Contains(t, h.read(t, "dist/js/scripts.min.js"), "console.log")
	assert.Equal(t, "/*! jquery */\n", h.read(t, "dist/js/libs/jquery.js"))
}

func TestApp_Run_RerunIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.write(t, "src/index.html", "<p>index</p>\n")
	h.write(t, "src/js/components/components-message.js", "var message = function (m) { return m; };\n")
	h.write(t, "src/js/scripts.js", "console.log(message(\"hi\"));\n")
	h.write(t, "src/js/libs/jquery.js", "/*! jquery */\n")

	h.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil).Times(4)
	var infos []string
	h.logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		infos = append(infos, msg)
	}).AnyTimes()

	outputs := []string{"dist/index.html", "dist/js/scripts.min.js", "dist/js/libs/jquery.js"}
	snapshot := func() map[string]string {
		m := make(map[string]string, len(outputs))
		for _, o := range outputs {
			m[o] = h.read(t, o)
		}
		return m
	}

	for _, entry := range []string{domain.EntryHTML, domain.EntryJS} {
		require.NoError(t, h.app.Run(context.Background(), entry, app.RunOptions{}))
	}
	first := snapshot()
	assert.NotContains(t, infos, "js:compile: outputs unchanged")

	for _, entry := range []string{domain.EntryHTML, domain.EntryJS} {
		require.NoError(t, h.app.Run(context.Background(), entry, app.RunOptions{}))
	}
	assert.Equal(t, first, snapshot())
	assert.Contains(t, infos, "html:copy: outputs unchanged")
	assert.Contains(t, infos, "js:compile: outputs unchanged")

	info, err := cas.NewStore().Get(h.root, domain.TaskJSCompile)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []string{"dist/js/scripts.min.js"}, info.Outputs)
}

func TestApp_Run_JSONFormatSkipsProgress(t *testing.T) {
	h := newHarness(t)
	h.write(t, "src/index.html", "<p>index</p>\n")

	h.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := h.app.Run(context.Background(), domain.EntryHTML, app.RunOptions{LogFormat: "json"})
	require.NoError(t, err)

	assert.Equal(t, "<p>index</p>\n", h.read(t, "dist/index.html"))
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestApp_Run_IconFonts(t *testing.T) {
	h := newHarness(t)
	h.write(t, "src/icomoon/fonts/icomoon.woff", "woff")
	h.write(t, "src/icomoon/fonts/sub/icomoon.ttf", "ttf")

	h.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	// icon:minify has no source here and writes nothing.
	err := h.app.Run(context.Background(), domain.EntryIcon, app.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, "woff", h.read(t, "dist/icomoon/fonts/icomoon.woff"))
	assert.Equal(t, "ttf", h.read(t, "dist/icomoon/fonts/sub/icomoon.ttf"))
}

func TestApp_Run_ConfigError(t *testing.T) {
	h := newHarness(t)
	cfgPath := filepath.Join(h.root, "custom.yaml")

	h.loader.EXPECT().Load(cfgPath).Return(domain.Config{}, domain.ErrConfigParseFailed)

	err := h.app.Run(context.Background(), domain.EntryBuild, app.RunOptions{ConfigPath: "custom.yaml"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Run_InvalidScriptTarget(t *testing.T) {
	h := newHarness(t)
	cfg := domain.DefaultConfig()
	cfg.Script.Target = "es1999"

	h.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	err := h.app.Run(context.Background(), domain.EntryJS, app.RunOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())
}

func TestApp_Run_UnknownEntry(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)

	err := h.app.Run(context.Background(), "deploy", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.ErrorContains(t, err, "task not found")
}

func TestApp_Run_JSONFormatLogsFailure(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)
	h.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, "task not found")
	})

	err := h.app.Run(context.Background(), "deploy", app.RunOptions{LogFormat: "json"})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Empty(t, h.stderr.String())
}

func TestApp_Serve(t *testing.T) {
	h := newHarness(t)
	h.write(t, "dist/index.html", "<html><body><h1>hi</h1></body></html>")

	cfg := domain.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	h.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil).Times(2)

	addr := make(chan string, 1)
	h.logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		if rest, ok := strings.CutPrefix(msg, "serving on "); ok {
			addr <- rest
		}
	}).AnyTimes()

	events := make(chan ports.WatchEvent)
	h.watcher.EXPECT().Start(gomock.Any(), filepath.Join(h.root, "src"), filepath.Join(h.root, "dist")).Return(nil)
	h.watcher.EXPECT().Stop().Return(nil)
	h.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.app.Run(ctx, domain.EntryServe, app.RunOptions{})
	}()

	var base string
	select {
	case base = <-addr:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Contains(t, string(body), livereload.ScriptTag+"</body>")

	resp, err = http.Get(base + livereload.ScriptPath)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	close(events)
	require.NoError(t, <-done)

	// The serving state is entered once per process.
	err = h.app.Run(context.Background(), domain.EntryWatch, app.RunOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrAlreadyServing.Error())
}

func TestApp_Tasks(t *testing.T) {
	h := newHarness(t)

	var out bytes.Buffer
	require.NoError(t, h.app.Tasks(&out))

	text := out.String()
	for _, e := range domain.Entries() {
		assert.Contains(t, text, e.Name)
		assert.Contains(t, text, e.Description)
	}
	assert.Contains(t, text, "html:copy, css:compile, js:compile, js:libs, icon:minify, icon:fonts, server")
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	h.write(t, ".kiln/store/html-copy.json", "{}")
	h.logger.EXPECT().Info(gomock.Any()).Times(2)

	require.NoError(t, h.app.Clean(context.Background()))

	_, err := os.Stat(filepath.Join(h.root, ".kiln", "store"))
	assert.True(t, os.IsNotExist(err))
}
