package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=files.go -destination=mocks/mock_files.go -package=mocks

// FileSource loads the files a chain source selects.
type FileSource interface {
	// Read returns the selected files in order. A selection that matches nothing
	// returns an empty slice and no error.
	Read(ctx context.Context, src domain.Source) ([]*domain.File, error)
}

// FileSink writes chain results to disk.
type FileSink interface {
	// Write stores files under dest and returns the absolute paths written.
	// With flatten set, only each file's basename is kept.
	Write(ctx context.Context, dest string, files []*domain.File, flatten bool) ([]string, error)
}
