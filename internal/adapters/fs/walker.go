// Package fs provides file system adapters for resolving, reading, writing and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skipDirectories are never descended into.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	".kiln":        true,
	"node_modules": true,
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root in lexical order.
// A root that does not exist yields nothing.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && skipDirectories[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
