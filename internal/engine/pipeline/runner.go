// Package pipeline applies a chain's stages to its source files and writes the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Toolchain holds the compilers and transformers the stages delegate to.
type Toolchain struct {
	Style      ports.StyleCompiler
	Scripts    ports.ScriptTransformer
	Styles     ports.StyleTransformer
	LineEnding domain.LineEnding
}

// Result describes one chain run.
type Result struct {
	// Outputs are the absolute paths written, in write order.
	Outputs []string
	// Recovered is set when a recoverable stage failed and the chain stopped without output.
	Recovered bool
}

// Runner executes chains.
type Runner struct {
	source ports.FileSource
	sink   ports.FileSink
	tools  Toolchain
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(source ports.FileSource, sink ports.FileSink, tools Toolchain, log ports.Logger) *Runner {
	return &Runner{
		source: source,
		sink:   sink,
		tools:  tools,
		logger: log,
	}
}

// Run reads the chain's source, applies every stage in order, and writes the result to
// the chain's destination. Progress lines are written to progress.
//
// A failing stage aborts the chain. If the stage is recoverable its error is logged and
// Run returns a Recovered result with a nil error.
func (r *Runner) Run(ctx context.Context, chain *domain.Chain, progress io.Writer) (Result, error) {
	if progress == nil {
		progress = io.Discard
	}

	files, err := r.source.Read(ctx, chain.Source)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(progress, "no source files matched")
		return Result{}, nil
	}

	for _, stage := range chain.Stages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		files, err = r.apply(ctx, stage, files)
		if err != nil {
			if stage.Recoverable() && errors.Is(err, domain.ErrStyleCompileFailed) {
				r.logger.Error(err)
				_, _ = fmt.Fprintf(progress, "%s failed, skipping remaining stages\n", stage.Kind)
				return Result{Recovered: true}, nil
			}
			return Result{}, zerr.With(err, "stage", stage.Kind.String())
		}
		_, _ = fmt.Fprintf(progress, "%s: %d file(s)\n", stage.Kind, len(files))
	}

	outputs, err := r.sink.Write(ctx, chain.Dest, files, chain.Flatten)
	if err != nil {
		return Result{Outputs: outputs}, err
	}
	for _, out := range outputs {
		_, _ = fmt.Fprintf(progress, "wrote %s\n", out)
	}

	return Result{Outputs: outputs}, nil
}

func (r *Runner) apply(ctx context.Context, stage domain.Stage, files []*domain.File) ([]*domain.File, error) {
	switch stage.Kind {
	case domain.StageSourceMapsInit:
		return initSourceMaps(files, stage)
	case domain.StageCompileStyle:
		return r.compileStyle(ctx, files)
	case domain.StagePrefix:
		return transformEach(ctx, files, r.tools.Styles.Prefix)
	case domain.StageWriteMaps:
		return writeMaps(files, stage.Arg), nil
	case domain.StageLineEndings:
		return normalizeLineEndings(files, r.tools.LineEnding), nil
	case domain.StageRename:
		return rename(files, stage.Arg), nil
	case domain.StageTranspile:
		return transformEach(ctx, files, r.tools.Scripts.Transpile)
	case domain.StageConcat:
		return concat(files, stage.Arg), nil
	case domain.StageMinifyScript:
		return transformEach(ctx, files, r.tools.Scripts.Minify)
	case domain.StageMinifyStyle:
		return transformEach(ctx, files, r.tools.Styles.Minify)
	default:
		return nil, zerr.With(domain.ErrUnknownStage, "stage", stage.Kind.String())
	}
}

func (r *Runner) compileStyle(ctx context.Context, files []*domain.File) ([]*domain.File, error) {
	out, err := transformEach(ctx, files, r.tools.Style.Compile)
	if err != nil {
		return nil, err
	}
	for _, f := range out {
		f.WithExt(".css")
	}
	return out, nil
}
