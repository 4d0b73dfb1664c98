package fs

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSource = (*Source)(nil)

// Source reads chain inputs from disk.
type Source struct {
	resolver *Resolver
	logger   ports.Logger
}

// NewSource creates a new Source. Skipped list entries are reported through logger.
func NewSource(resolver *Resolver, logger ports.Logger) *Source {
	return &Source{resolver: resolver, logger: logger}
}

// Read loads the files selected by src into memory.
func (s *Source) Read(ctx context.Context, src domain.Source) ([]*domain.File, error) {
	paths, missing, err := s.resolver.Resolve(src)
	if err != nil {
		return nil, err
	}

	for _, m := range missing {
		s.logger.Warn("source file not found, skipping: " + m)
	}

	base := sourceBase(src)
	files := make([]*domain.File, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		//nolint:gosec // Paths come from the fixed path registry
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", p)
		}

		files = append(files, &domain.File{
			Base:     base,
			Path:     p,
			Contents: data,
		})
	}

	return files, nil
}

func sourceBase(src domain.Source) string {
	switch {
	case src.Base != "":
		return src.Base
	case src.Glob == "":
		return ""
	case domain.HasGlobMeta(src.Glob):
		return domain.GlobBase(src.Glob)
	default:
		return filepath.Dir(src.Glob)
	}
}
