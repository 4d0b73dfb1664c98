package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

type transformFunc func(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error)

// transformEach runs fn over every non-map file, carrying tracked source maps through.
func transformEach(ctx context.Context, files []*domain.File, fn transformFunc) ([]*domain.File, error) {
	for _, f := range files {
		if f.IsMap() {
			continue
		}

		out, err := fn(ctx, ports.TransformInput{
			Filename:  f.Path,
			Contents:  f.Contents,
			SourceMap: f.SourceMap,
			WantMap:   f.Tracked,
		})
		if err != nil {
			return nil, err
		}

		f.Contents = out.Contents
		if f.Tracked {
			f.SourceMap = out.SourceMap
		}
	}
	return files, nil
}

// writeMaps emits the tracked map of every file, inline when dir is empty and as a
// companion dir/<name>.map file otherwise. Tracking ends for the written files.
func writeMaps(files []*domain.File, dir string) []*domain.File {
	out := make([]*domain.File, 0, len(files))
	for _, f := range files {
		out = append(out, f)
		if !f.Tracked || len(f.SourceMap) == 0 {
			f.Tracked = false
			continue
		}

		if dir == "" {
			f.Contents = append(f.Contents, mapComment(f.Path, inlineURL(f.SourceMap))...)
		} else {
			name := filepath.Base(f.Path) + domain.MapExt
			out = append(out, &domain.File{
				Base:     f.Base,
				Path:     filepath.Join(filepath.Dir(f.Path), dir, name),
				Contents: f.SourceMap,
			})
			f.Contents = append(f.Contents, mapComment(f.Path, filepath.ToSlash(filepath.Join(dir, name)))...)
		}

		f.SourceMap = nil
		f.Tracked = false
	}
	return out
}

// normalizeLineEndings rewrites every line terminator of non-map files to ending.
func normalizeLineEndings(files []*domain.File, ending domain.LineEnding) []*domain.File {
	seq := ending.Sequence()
	if seq == "" {
		return files
	}
	for _, f := range files {
		if f.IsMap() {
			continue
		}
		f.Contents = convertLineEndings(f.Contents, seq)
	}
	return files
}

func convertLineEndings(data []byte, seq string) []byte {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	normalized = bytes.ReplaceAll(normalized, []byte("\r"), []byte("\n"))
	if seq == "\n" {
		return normalized
	}
	return bytes.ReplaceAll(normalized, []byte("\n"), []byte(seq))
}

// rename gives every non-map file the basename name.
func rename(files []*domain.File, name string) []*domain.File {
	for _, f := range files {
		if !f.IsMap() {
			f.Rename(name)
		}
	}
	return files
}

// concat joins all files, in order, into a single file named name next to the first file's base.
func concat(files []*domain.File, name string) []*domain.File {
	if len(files) == 0 {
		return files
	}

	parts := make([][]byte, 0, len(files))
	for _, f := range files {
		parts = append(parts, f.Contents)
	}

	first := files[0]
	base := first.Base
	if base == "" {
		base = filepath.Dir(first.Path)
	}

	return []*domain.File{{
		Base:     base,
		Path:     filepath.Join(base, name),
		Contents: bytes.Join(parts, []byte("\n")),
	}}
}

func isStylesheet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".css")
}
