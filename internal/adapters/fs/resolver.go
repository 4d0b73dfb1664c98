package fs

import (
	"errors"
	"os"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands chain sources into concrete file paths.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// Resolve returns the files selected by src. For an explicit list the input order is
// kept and entries that do not exist are returned in missing. A glob yields its
// matches in lexical order; a glob that matches nothing is not an error.
func (r *Resolver) Resolve(src domain.Source) (paths, missing []string, err error) {
	if len(src.List) > 0 {
		for _, p := range src.List {
			ok, err := isFile(p)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				missing = append(missing, p)
				continue
			}
			paths = append(paths, p)
		}
		return paths, missing, nil
	}

	if src.Glob == "" {
		return nil, nil, nil
	}

	if !domain.HasGlobMeta(src.Glob) {
		ok, err := isFile(src.Glob)
		if err != nil || !ok {
			return nil, nil, err
		}
		return []string{src.Glob}, nil, nil
	}

	g, err := CompileGlob(src.Glob)
	if err != nil {
		return nil, nil, err
	}

	for path := range r.walker.WalkFiles(domain.GlobBase(src.Glob)) {
		if g.Match(path) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)

	return paths, nil, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.Mode().IsRegular(), nil
}
