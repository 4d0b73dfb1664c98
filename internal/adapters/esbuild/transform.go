package esbuild

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.ScriptTransformer = (*Scripts)(nil)
	_ ports.StyleTransformer  = (*Styles)(nil)
)

// Scripts lowers and minifies JavaScript.
type Scripts struct {
	target api.Target
	logger ports.Logger
}

// NewScripts returns a script transformer lowering syntax to target, e.g. "es2015".
func NewScripts(target string, log ports.Logger) (*Scripts, error) {
	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}
	return &Scripts{target: t, logger: log}, nil
}

// Transpile lowers in to the configured language level.
func (s *Scripts) Transpile(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	return run(ctx, in, api.TransformOptions{
		Loader: api.LoaderJS,
		Target: s.target,
	}, domain.ErrScriptTransformFailed, s.logger)
}

// Minify minifies whitespace, identifiers, and syntax.
func (s *Scripts) Minify(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	return run(ctx, in, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            s.target,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	}, domain.ErrScriptTransformFailed, s.logger)
}

// Styles prefixes and minifies CSS for a set of browser engines.
type Styles struct {
	engines []api.Engine
	logger  ports.Logger
}

// NewStyles returns a style transformer for targets such as "chrome129".
func NewStyles(targets []string, log ports.Logger) (*Styles, error) {
	engines, err := ParseEngines(targets)
	if err != nil {
		return nil, err
	}
	return &Styles{engines: engines, logger: log}, nil
}

// Prefix adds the vendor prefixes the configured engines need, keeping the output compact.
func (s *Styles) Prefix(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	return run(ctx, in, api.TransformOptions{
		Loader:           api.LoaderCSS,
		Engines:          s.engines,
		MinifyWhitespace: true,
	}, domain.ErrStyleTransformFailed, s.logger)
}

// Minify minifies whitespace and syntax.
func (s *Styles) Minify(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	return run(ctx, in, api.TransformOptions{
		Loader:           api.LoaderCSS,
		Engines:          s.engines,
		MinifyWhitespace: true,
		MinifySyntax:     true,
	}, domain.ErrStyleTransformFailed, s.logger)
}

// run applies opts to in. A map carried in on in.SourceMap is handed to esbuild inline
// so the output map points at the original sources.
func run(
	ctx context.Context,
	in ports.TransformInput,
	opts api.TransformOptions,
	sentinel error,
	log ports.Logger,
) (ports.TransformOutput, error) {
	if err := ctx.Err(); err != nil {
		return ports.TransformOutput{}, err
	}

	code := string(in.Contents)
	opts.Sourcefile = in.Filename
	opts.LogLevel = api.LogLevelSilent
	if in.WantMap {
		opts.Sourcemap = api.SourceMapExternal
		opts.SourcesContent = api.SourcesContentInclude
		if len(in.SourceMap) > 0 {
			code += inlineMapComment(opts.Loader, in.SourceMap)
		}
	}

	res := api.Transform(code, opts)
	if len(res.Errors) > 0 {
		return ports.TransformOutput{}, zerr.With(
			zerr.Wrap(zerr.New(formatMessage(res.Errors[0])), sentinel.Error()),
			"path", in.Filename,
		)
	}
	if log != nil {
		for _, w := range res.Warnings {
			log.Warn(formatMessage(w))
		}
	}

	out := ports.TransformOutput{Contents: res.Code}
	if in.WantMap {
		out.SourceMap = res.Map
	}
	return out, nil
}

func inlineMapComment(loader api.Loader, sourceMap []byte) string {
	url := "data:application/json;base64," + base64.StdEncoding.EncodeToString(sourceMap)
	if loader == api.LoaderCSS {
		return "\n/*# sourceMappingURL=" + url + " */\n"
	}
	return "\n//# sourceMappingURL=" + url + "\n"
}

func formatMessage(msg api.Message) string {
	if msg.Location == nil {
		return msg.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
}
