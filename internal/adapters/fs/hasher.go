package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of files.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeOutputHash computes the hash of the output files.
// Each file contributes its path as given and its content hash. Relative paths resolve
// against root.
func (h *Hasher) ComputeOutputHash(outputs []string, root string) (string, error) {
	sortedOutputs := make([]string, len(outputs))
	copy(sortedOutputs, outputs)
	sort.Strings(sortedOutputs)

	hasher := xxhash.New()

	for _, output := range sortedOutputs {
		path := output
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, filepath.FromSlash(output))
		}

		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", zerr.With(zerr.Wrap(iofs.ErrNotExist, "output file missing"), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, "failed to stat output file"), "path", path)
		}

		hash, err := h.ComputeFileHash(path)
		if err != nil {
			return "", err
		}

		_, _ = hasher.WriteString(filepath.ToSlash(output))
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, hash); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
