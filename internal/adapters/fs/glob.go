package fs

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathMatcher = (*Matcher)(nil)

// Glob is a compiled path pattern. "*" stays within one path segment and "**"
// spans any number of segments, including none.
type Glob struct {
	pattern string
	forms   []glob.Glob
}

// CompileGlob compiles pattern for matching absolute paths.
func CompileGlob(pattern string) (*Glob, error) {
	forms := expandDoubleStar(filepath.ToSlash(pattern))
	g := &Glob{pattern: pattern, forms: make([]glob.Glob, 0, len(forms))}
	for _, f := range forms {
		compiled, err := glob.Compile(f, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidGlob.Error()), "pattern", pattern)
		}
		g.forms = append(g.forms, compiled)
	}
	return g, nil
}

// expandDoubleStar returns every spelling of pattern with each "/**/" either kept or
// collapsed to "/", so "a/**/b" also matches "a/b".
func expandDoubleStar(pattern string) []string {
	i := strings.Index(pattern, "/**/")
	if i < 0 {
		return []string{pattern}
	}
	head, tail := pattern[:i], pattern[i+len("/**/"):]
	rests := expandDoubleStar(tail)
	out := make([]string, 0, 2*len(rests))
	for _, rest := range rests {
		out = append(out, head+"/**/"+rest, head+"/"+rest)
	}
	return out
}

// Match reports whether path matches the pattern. Files whose name starts with a dot
// only match when the pattern names them literally.
func (g *Glob) Match(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") && domain.HasGlobMeta(filepath.Base(g.pattern)) {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, f := range g.forms {
		if f.Match(slashed) {
			return true
		}
	}
	return false
}

// String returns the pattern the glob was compiled from.
func (g *Glob) String() string {
	return g.pattern
}

// Matcher matches a path against any of several globs.
type Matcher struct {
	globs []*Glob
}

// NewMatcher compiles every pattern into a single matcher.
func NewMatcher(patterns []string) (*Matcher, error) {
	globs := make([]*Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := CompileGlob(p)
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return &Matcher{globs: globs}, nil
}

// Match reports whether path matches at least one glob.
func (m *Matcher) Match(path string) bool {
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
