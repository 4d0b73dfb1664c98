package domain

import (
	"path/filepath"
	"strings"
)

// Category identifies an asset type handled by the pipeline.
type Category uint8

const (
	// CategoryHTML covers top-level HTML pages.
	CategoryHTML Category = iota
	// CategoryStyle covers Sass sources and the compiled stylesheet.
	CategoryStyle
	// CategoryScript covers JavaScript sources and the bundled script.
	CategoryScript
	// CategoryIcon covers the icon-font stylesheet and its fonts.
	CategoryIcon
)

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{CategoryHTML, CategoryStyle, CategoryScript, CategoryIcon}
}

func (c Category) String() string {
	switch c {
	case CategoryHTML:
		return "html"
	case CategoryStyle:
		return "style"
	case CategoryScript:
		return "script"
	case CategoryIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// Role tells whether a path entry points at sources or at the distribution tree.
type Role uint8

const (
	// RoleSource is the authored input side.
	RoleSource Role = iota
	// RoleDist is the generated output side.
	RoleDist
)

func (r Role) String() string {
	if r == RoleDist {
		return "dist"
	}
	return "src"
}

const (
	sourceRoot = "src/"
	distRoot   = "dist/"
)

type pathKey struct {
	category Category
	role     Role
}

type pathEntry struct {
	dir  string
	glob string
}

// Paths is the fixed registry of source and distribution locations.
// Directory and glob strings are relative to the project root and use forward slashes.
type Paths struct {
	root    string
	entries map[pathKey]pathEntry
}

// NewPaths builds the registry for a project rooted at root.
func NewPaths(root string) *Paths {
	dirs := map[Category][2]string{
		CategoryHTML:   {sourceRoot, distRoot},
		CategoryStyle:  {sourceRoot + "sass/", distRoot + "css/"},
		CategoryScript: {sourceRoot + "js/", distRoot + "js/"},
		CategoryIcon:   {sourceRoot + "icomoon/", distRoot + "icomoon/"},
	}
	patterns := map[Category][2]string{
		CategoryHTML:   {"*.html", "*.html"},
		CategoryStyle:  {"**/*.sass", "**/*.css"},
		CategoryScript: {"**/*.js", "**/*.js"},
		CategoryIcon:   {"**/*", "**/*"},
	}

	entries := make(map[pathKey]pathEntry, len(dirs)*2)
	for c, d := range dirs {
		for i, r := range []Role{RoleSource, RoleDist} {
			entries[pathKey{c, r}] = pathEntry{dir: d[i], glob: d[i] + patterns[c][i]}
		}
	}

	return &Paths{root: root, entries: entries}
}

// Root returns the project root the registry was built for.
func (p *Paths) Root() string {
	return p.root
}

// Dir returns the directory for the given category and role, with a trailing slash.
func (p *Paths) Dir(c Category, r Role) string {
	return p.entries[pathKey{c, r}].dir
}

// Glob returns the file pattern for the given category and role.
func (p *Paths) Glob(c Category, r Role) string {
	return p.entries[pathKey{c, r}].glob
}

// SourceRoot returns the top-level source directory.
func (p *Paths) SourceRoot() string {
	return sourceRoot
}

// DistRoot returns the top-level distribution directory.
func (p *Paths) DistRoot() string {
	return distRoot
}

// Abs resolves a registry-relative path against the project root.
// A trailing slash on rel is preserved so directory prefixes stay recognizable.
func (p *Paths) Abs(rel string) string {
	abs := filepath.Join(p.root, filepath.FromSlash(rel))
	if strings.HasSuffix(rel, "/") {
		abs += string(filepath.Separator)
	}
	return abs
}

// GlobBase returns the leading directory of pattern that contains no glob syntax.
// A pattern without glob syntax is its own base.
func GlobBase(pattern string) string {
	slashed := filepath.ToSlash(pattern)
	if !HasGlobMeta(slashed) {
		return pattern
	}

	segments := strings.Split(slashed, "/")
	base := make([]string, 0, len(segments))
	for _, seg := range segments {
		if HasGlobMeta(seg) {
			break
		}
		base = append(base, seg)
	}

	joined := strings.Join(base, "/")
	if joined == "" && strings.HasPrefix(slashed, "/") {
		joined = "/"
	}
	return filepath.FromSlash(joined)
}

// HasGlobMeta reports whether s contains any glob metacharacter.
func HasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
