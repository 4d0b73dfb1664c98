package domain

import (
	"path/filepath"
	"strings"
)

// MapExt is the extension of companion source-map files.
const MapExt = ".map"

// File is an in-memory asset moving through a chain.
type File struct {
	// Base is the directory Path is made relative to when written.
	Base string
	// Path is the absolute location of the file.
	Path     string
	Contents []byte
	// SourceMap holds the tracked map, if any.
	SourceMap []byte
	// Tracked is set once source-map tracking has started for the file.
	Tracked bool
}

// Relative returns Path relative to Base, falling back to the basename.
func (f *File) Relative() string {
	rel, err := filepath.Rel(f.Base, f.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(f.Path)
	}
	return rel
}

// IsMap reports whether the file is a companion source map.
func (f *File) IsMap() bool {
	return strings.HasSuffix(f.Path, MapExt)
}

// WithExt replaces the extension of Path.
func (f *File) WithExt(ext string) {
	f.Path = strings.TrimSuffix(f.Path, filepath.Ext(f.Path)) + ext
}

// Rename replaces the basename of Path, keeping its directory.
func (f *File) Rename(name string) {
	f.Path = filepath.Join(filepath.Dir(f.Path), name)
}
