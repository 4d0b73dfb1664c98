package ports

import "context"

// TransformInput is a single file handed to a compiler or transformer.
type TransformInput struct {
	// Filename is the absolute path of the file, used for diagnostics and map sources.
	Filename string
	Contents []byte
	// SourceMap is the map carried in from an earlier stage, if any.
	SourceMap []byte
	// WantMap asks for a source map in the output.
	WantMap bool
}

// TransformOutput is the result of a compiler or transformer.
type TransformOutput struct {
	Contents  []byte
	SourceMap []byte
}

//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks

// StyleCompiler compiles Sass sources to CSS.
type StyleCompiler interface {
	Compile(ctx context.Context, in TransformInput) (TransformOutput, error)
	// Close releases the compiler process, if one was started.
	Close() error
}

// ScriptTransformer lowers and minifies JavaScript.
type ScriptTransformer interface {
	Transpile(ctx context.Context, in TransformInput) (TransformOutput, error)
	Minify(ctx context.Context, in TransformInput) (TransformOutput, error)
}

// StyleTransformer prefixes and minifies CSS.
type StyleTransformer interface {
	Prefix(ctx context.Context, in TransformInput) (TransformOutput, error)
	Minify(ctx context.Context, in TransformInput) (TransformOutput, error)
}
