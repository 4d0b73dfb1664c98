// Package sass compiles Sass stylesheets through the Dart Sass embedded protocol.
package sass

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const compileTimeout = 30 * time.Second

var _ ports.StyleCompiler = (*Compiler)(nil)

// Compiler implements ports.StyleCompiler. The Dart Sass process is started on first use
// and restarted if it dies.
type Compiler struct {
	binary string
	logger ports.Logger

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewCompiler returns a Compiler running binary, looked up in $PATH when not absolute.
func NewCompiler(binary string, log ports.Logger) *Compiler {
	return &Compiler{binary: binary, logger: log}
}

// Compile compiles in to compressed CSS. The output carries a source map when in.WantMap is set.
// Imports resolve relative to the source file's directory.
func (c *Compiler) Compile(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	if err := ctx.Err(); err != nil {
		return ports.TransformOutput{}, err
	}

	t, err := c.start()
	if err != nil {
		return ports.TransformOutput{}, zerr.With(err, "path", in.Filename)
	}

	res, err := t.Execute(godartsass.Args{
		Source:                  string(in.Contents),
		URL:                     "file://" + filepath.ToSlash(in.Filename),
		SourceSyntax:            syntaxFor(in.Filename),
		OutputStyle:             godartsass.OutputStyleCompressed,
		EnableSourceMap:         in.WantMap,
		SourceMapIncludeSources: in.WantMap,
		IncludePaths:            []string{filepath.Dir(in.Filename)},
	})
	if err != nil {
		return ports.TransformOutput{}, c.wrap(err, in.Filename)
	}

	out := ports.TransformOutput{Contents: []byte(res.CSS)}
	if in.WantMap && res.SourceMap != "" {
		out.SourceMap = []byte(res.SourceMap)
	}
	return out, nil
}

// Close stops the Dart Sass process, if one is running.
func (c *Compiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler == nil {
		return nil
	}
	err := c.transpiler.Close()
	c.transpiler = nil
	if errors.Is(err, godartsass.ErrShutdown) {
		return nil
	}
	return err
}

func (c *Compiler) start() (*godartsass.Transpiler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler != nil && !c.transpiler.IsShutDown() {
		return c.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: c.binary,
		Timeout:                  compileTimeout,
		LogEventHandler:          c.onLogEvent,
	})
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrToolchainUnavailable, err), "binary", c.binary)
	}
	c.transpiler = t
	return t, nil
}

func (c *Compiler) onLogEvent(ev godartsass.LogEvent) {
	if c.logger == nil {
		return
	}
	switch ev.Type {
	case godartsass.LogEventTypeDebug:
		c.logger.Info(ev.Message)
	case godartsass.LogEventTypeDeprecated:
		c.logger.Warn("deprecated (" + ev.DeprecationType + "): " + ev.Message)
	default:
		c.logger.Warn(ev.Message)
	}
}

func (c *Compiler) wrap(err error, filename string) error {
	var sassErr godartsass.SassError
	if errors.As(err, &sassErr) {
		err = zerr.New(sassErr.Message)
		if ctx := strings.TrimSpace(sassErr.Span.Context); ctx != "" {
			err = zerr.With(err, "context", ctx)
		}
	}
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrStyleCompileFailed, err), "path", filename)
}

// syntaxFor picks the Sass syntax from the file extension.
func syntaxFor(filename string) godartsass.SourceSyntax {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".sass":
		return godartsass.SourceSyntaxSASS
	case ".css":
		return godartsass.SourceSyntaxCSS
	default:
		return godartsass.SourceSyntaxSCSS
	}
}
