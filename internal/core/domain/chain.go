package domain

// StageKind enumerates the transformations a chain can apply.
type StageKind uint8

const (
	// StageSourceMapsInit starts source-map tracking and optionally loads inline maps.
	StageSourceMapsInit StageKind = iota + 1
	// StageCompileStyle compiles indented Sass to compressed CSS.
	StageCompileStyle
	// StagePrefix adds vendor prefixes for the configured browser targets.
	StagePrefix
	// StageWriteMaps emits tracked source maps inline or as companion files.
	StageWriteMaps
	// StageLineEndings rewrites line terminators to the configured sequence.
	StageLineEndings
	// StageRename replaces the basename of every non-map file.
	StageRename
	// StageTranspile lowers script syntax to the configured target.
	StageTranspile
	// StageConcat joins all files into one, in input order.
	StageConcat
	// StageMinifyScript minifies JavaScript.
	StageMinifyScript
	// StageMinifyStyle minifies CSS.
	StageMinifyStyle
)

func (k StageKind) String() string {
	switch k {
	case StageSourceMapsInit:
		return "sourcemaps-init"
	case StageCompileStyle:
		return "compile-style"
	case StagePrefix:
		return "prefix"
	case StageWriteMaps:
		return "write-maps"
	case StageLineEndings:
		return "line-endings"
	case StageRename:
		return "rename"
	case StageTranspile:
		return "transpile"
	case StageConcat:
		return "concat"
	case StageMinifyScript:
		return "minify-script"
	case StageMinifyStyle:
		return "minify-style"
	default:
		return "unknown"
	}
}

// Stage is one step of a chain.
// Arg carries the file name for Rename and Concat and the map directory for WriteMaps
// (empty means inline). LoadMaps and LargeFile only apply to SourceMapsInit.
type Stage struct {
	Kind      StageKind
	Arg       string
	LoadMaps  bool
	LargeFile bool
}

// Recoverable reports whether a compile error (ErrStyleCompileFailed) in this stage ends the
// chain without failing the task. Other failures of the stage still fail it.
func (s Stage) Recoverable() bool {
	return s.Kind == StageCompileStyle
}

// Source selects the input files of a chain, either by glob or by an explicit ordered list.
// Paths are absolute. Base is the directory outputs are made relative to; when empty it is
// derived from Glob.
type Source struct {
	Glob string
	List []string
	Base string
}

// Chain is a linear sequence of stages from a source selection to a destination directory.
type Chain struct {
	Source  Source
	Stages  []Stage
	Dest    string
	Flatten bool
}

// CopyDirectory returns a passthrough chain copying every file under src into dst,
// keeping each file's location relative to src.
func CopyDirectory(src, dst string) *Chain {
	base := trimSeparator(src)
	return &Chain{
		Source: Source{Glob: base + "/**/*", Base: base},
		Dest:   dst,
	}
}

// CopyFiles returns a passthrough chain copying the files matched by pattern flatly into dst.
func CopyFiles(pattern, dst string) *Chain {
	return &Chain{
		Source:  Source{Glob: pattern},
		Dest:    dst,
		Flatten: true,
	}
}

func trimSeparator(p string) string {
	for len(p) > 1 && (p[len(p)-1] == '/' || p[len(p)-1] == '\\') {
		p = p[:len(p)-1]
	}
	return p
}
