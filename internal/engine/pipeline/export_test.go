package pipeline

import "go.trai.ch/kiln/internal/core/domain"

// InitSourceMapsForTest exposes initSourceMaps for testing.
func InitSourceMapsForTest(files []*domain.File, stage domain.Stage) ([]*domain.File, error) {
	return initSourceMaps(files, stage)
}

// WriteMapsForTest exposes writeMaps for testing.
func WriteMapsForTest(files []*domain.File, dir string) []*domain.File {
	return writeMaps(files, dir)
}

// ConvertLineEndingsForTest exposes convertLineEndings for testing.
func ConvertLineEndingsForTest(data []byte, seq string) []byte {
	return convertLineEndings(data, seq)
}

// ConcatForTest exposes concat for testing.
func ConcatForTest(files []*domain.File, name string) []*domain.File {
	return concat(files, name)
}
