package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
)

// writeTree creates files (relative slash paths) with the given contents under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".git/config":           "git config",
		"node_modules/x/a.js":   "module",
		"src/main.js":           "main",
		"src/nested/deep/a.css": "deep",
		"README.md":             "readme",
	})

	walker := fs.NewWalker()
	var files []string
	for path := range walker.WalkFiles(tmpDir) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"README.md", "src/main.js", "src/nested/deep/a.css"}, files)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	walker := fs.NewWalker()
	count := 0
	for range walker.WalkFiles(filepath.Join(t.TempDir(), "absent")) {
		count++
	}
	assert.Zero(t, count)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"a.txt": "hello", "b.txt": "hello", "c.txt": "world"})

	hasher := fs.NewHasher()

	a, err := hasher.ComputeFileHash(filepath.Join(tmpDir, "a.txt"))
	require.NoError(t, err)
	b, err := hasher.ComputeFileHash(filepath.Join(tmpDir, "b.txt"))
	require.NoError(t, err)
	c, err := hasher.ComputeFileHash(filepath.Join(tmpDir, "c.txt"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = hasher.ComputeFileHash(filepath.Join(tmpDir, "missing.txt"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestHasher_ComputeOutputHash(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"dist/css/styles.min.css": "body{}",
		"dist/js/scripts.min.js":  "x()",
	})

	hasher := fs.NewHasher()
	outputs := []string{"dist/js/scripts.min.js", "dist/css/styles.min.css"}

	h1, err := hasher.ComputeOutputHash(outputs, tmpDir)
	require.NoError(t, err)

	reversed := []string{outputs[1], outputs[0]}
	h2, err := hasher.ComputeOutputHash(reversed, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "order of outputs must not matter")

	writeTree(t, tmpDir, map[string]string{"dist/js/scripts.min.js": "y()"})
	h3, err := hasher.ComputeOutputHash(outputs, tmpDir)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	_, err = hasher.ComputeOutputHash([]string{"dist/missing.js"}, tmpDir)
	assert.ErrorContains(t, err, "output file missing")
}

func TestHasher_ComputeOutputHash_AbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"dist/index.html": "<p>x</p>"})

	hasher := fs.NewHasher()
	abs, err := hasher.ComputeOutputHash([]string{filepath.Join(tmpDir, "dist", "index.html")}, tmpDir)
	require.NoError(t, err)
	assert.NotEmpty(t, abs)

	rel, err := hasher.ComputeOutputHash([]string{"dist/index.html"}, tmpDir)
	require.NoError(t, err)
	assert.NotEmpty(t, rel)
}
