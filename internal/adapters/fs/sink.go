package fs

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSink = (*Sink)(nil)

// Sink writes chain outputs to disk, creating directories as needed.
type Sink struct{}

// NewSink creates a new Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Write stores files below dest. Existing files are overwritten.
func (s *Sink) Write(ctx context.Context, dest string, files []*domain.File, flatten bool) ([]string, error) {
	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		rel := f.Relative()
		if flatten {
			rel = filepath.Base(f.Path)
		}
		out := filepath.Join(dest, rel)

		if err := os.MkdirAll(filepath.Dir(out), domain.OutputDirPerm); err != nil {
			return written, zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", out)
		}
		if err := os.WriteFile(out, f.Contents, domain.FilePerm); err != nil {
			return written, zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", out)
		}
		written = append(written, out)
	}
	return written, nil
}
