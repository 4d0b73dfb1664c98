// Package cas implements build info storage.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a file-per-task strategy under
// <root>/.kiln/store.
type Store struct{}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build info for a given task name.
func (s *Store) Get(root, taskName string) (*domain.BuildInfo, error) {
	filename := s.filename(root, taskName)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "task", taskName)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "task", taskName)
	}

	return &info, nil
}

// Put stores the build info, replacing any earlier record for the same task.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.filename(root, info.TaskName)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	// Write then rename so a crash never leaves a truncated record behind.
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// filename keeps the task name readable and appends a short digest, since task
// names contain characters such as ':' that are not portable in file names.
func (s *Store) filename(root, taskName string) string {
	hash := sha256.Sum256([]byte(taskName))
	readable := strings.NewReplacer(":", "-", "/", "-", "\\", "-").Replace(taskName)
	name := readable + "-" + hex.EncodeToString(hash[:4]) + ".json"
	return filepath.Join(root, domain.DefaultStorePath(), name)
}
