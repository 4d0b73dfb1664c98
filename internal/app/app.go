// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.trai.ch/kiln/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/esbuild"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/sass"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/kiln/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	store        ports.BuildInfoStore
	hasher       ports.Hasher
	source       ports.FileSource
	sink         ports.FileSink
	metrics      ports.Metrics
	watcher      ports.Watcher

	root   string
	stdout io.Writer
	stderr io.Writer

	serving atomic.Bool
}

// New creates a new App instance rooted at the working directory.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	source ports.FileSource,
	sink ports.FileSink,
	metrics ports.Metrics,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		store:        store,
		hasher:       hasher,
		source:       source,
		sink:         sink,
		metrics:      metrics,
		watcher:      watcher,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithRoot sets the project root. Relative source and distribution paths resolve against it.
func (a *App) WithRoot(root string) *App {
	a.root = root
	return a
}

// WithOutput redirects task output and progress lines.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// ConfigPath is the configuration file, relative to the project root unless absolute.
	ConfigPath string
	// LogFormat is "auto", "pretty" or "json".
	LogFormat string
}

// jsonLogger is implemented by loggers that can switch to JSON records.
type jsonLogger interface {
	SetJSON(enable bool)
}

// Run executes the entry task named entry.
func (a *App) Run(ctx context.Context, entry string, opts RunOptions) error {
	a.configureLogging(opts.LogFormat)

	root, err := a.projectRoot()
	if err != nil {
		return err
	}

	// 1. Load configuration and build the task graph
	cfg, err := a.configLoader.Load(resolvePath(root, opts.ConfigPath))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	paths := domain.NewPaths(root)
	graph, err := domain.NewCatalog(paths)
	if err != nil {
		return err
	}

	// 2. Build the toolchain
	tools, closeTools, err := a.toolchain(cfg)
	if err != nil {
		return err
	}
	defer closeTools()

	// 3. Initialize Renderer and Telemetry
	// An explicit JSON format keeps stderr machine-readable, so no progress lines.
	renderer := linear.NewRenderer(a.stdout, a.stderr)
	quiet := opts.LogFormat == detector.FormatJSON.String()
	var tracer ports.Tracer = telemetry.NewNoOpTracer()
	if !quiet {
		provider := telemetry.NewProvider(renderer)
		defer func() {
			_ = provider.Shutdown(context.WithoutCancel(ctx))
		}()
		tracer = telemetry.NewOTelTracer(provider).WithRenderer(renderer)
	}

	// 4. Initialize Scheduler
	runner := pipeline.NewRunner(a.source, a.sink, tools, a.logger)
	sched := scheduler.NewScheduler(runner, a.store, a.hasher, tracer, a.metrics, a.logger, root)
	serve := a.serveFunc(cfg, paths, graph, sched)

	// 5. Run Renderer and Scheduler concurrently
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		if err := sched.Run(ctx, graph, entry, serve); err != nil {
			// Without progress lines the failing task is reported only here.
			if quiet {
				a.logger.Error(err)
			}
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) configureLogging(format string) {
	l, ok := a.logger.(jsonLogger)
	if !ok {
		return
	}
	resolved := detector.ResolveFormat(detector.DetectEnvironment(), format)
	l.SetJSON(resolved == detector.FormatJSON)
}

func (a *App) toolchain(cfg domain.Config) (pipeline.Toolchain, func(), error) {
	scripts, err := esbuild.NewScripts(cfg.Script.Target, a.logger)
	if err != nil {
		return pipeline.Toolchain{}, nil, err
	}
	styles, err := esbuild.NewStyles(cfg.Style.PrefixTargets, a.logger)
	if err != nil {
		return pipeline.Toolchain{}, nil, err
	}

	compiler := sass.NewCompiler(cfg.Style.SassBinary, a.logger)
	closeFn := func() {
		if err := compiler.Close(); err != nil {
			a.logger.Error(err)
		}
	}

	return pipeline.Toolchain{
		Style:      compiler,
		Scripts:    scripts,
		Styles:     styles,
		LineEnding: cfg.LineEnding,
	}, closeFn, nil
}

func (a *App) projectRoot() (string, error) {
	if a.root != "" {
		return filepath.Abs(a.root)
	}
	return os.Getwd()
}

func resolvePath(root, p string) string {
	if p == "" {
		p = domain.ConfigFileName
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Tasks writes every entry task with its description and the leaf tasks it runs.
func (a *App) Tasks(w io.Writer) error {
	root, err := a.projectRoot()
	if err != nil {
		return err
	}

	graph, err := domain.NewCatalog(domain.NewPaths(root))
	if err != nil {
		return err
	}

	entries := domain.Entries()
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}

	for _, e := range entries {
		leaves, err := graph.Expand(e.Name)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(leaves))
		for _, l := range leaves {
			names = append(names, l.Name)
		}

		pad := strings.Repeat(" ", width-len(e.Name))
		_, _ = fmt.Fprintf(w, "%s%s  %s\n", style.Label(e.Name), pad, e.Description)
		_, _ = fmt.Fprintf(w, "%s  %s %s\n", strings.Repeat(" ", width), style.Arrow,
			strings.Join(names, ", "))
	}
	return nil
}

// Clean removes the build info store.
func (a *App) Clean(_ context.Context) error {
	root, err := a.projectRoot()
	if err != nil {
		return err
	}

	path := filepath.Join(root, domain.DefaultStorePath())
	a.logger.Info("removing build info store...")
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove build info store"), "path", path)
	}
	a.logger.Info("removed build info store")
	return nil
}
