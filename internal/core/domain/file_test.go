package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestFile_Relative(t *testing.T) {
	f := &domain.File{
		Base: filepath.FromSlash("/project/src/js"),
		Path: filepath.FromSlash("/project/src/js/page/page-account.js"),
	}
	assert.Equal(t, filepath.FromSlash("page/page-account.js"), f.Relative())

	outside := &domain.File{
		Base: filepath.FromSlash("/project/src/js"),
		Path: filepath.FromSlash("/elsewhere/lib.js"),
	}
	assert.Equal(t, "lib.js", outside.Relative())
}

func TestFile_RenameAndExt(t *testing.T) {
	f := &domain.File{Path: filepath.FromSlash("/project/src/sass/styles.sass")}

	f.WithExt(".css")
	assert.Equal(t, filepath.FromSlash("/project/src/sass/styles.css"), f.Path)
	assert.False(t, f.IsMap())

	f.Rename("styles.min.css")
	assert.Equal(t, filepath.FromSlash("/project/src/sass/styles.min.css"), f.Path)

	m := &domain.File{Path: f.Path + domain.MapExt}
	assert.True(t, m.IsMap())
}

func TestCopyConstructors(t *testing.T) {
	dir := domain.CopyDirectory("/project/src/icomoon/fonts/", "/project/dist/icomoon/fonts")
	assert.Equal(t, "/project/src/icomoon/fonts/**/*", dir.Source.Glob)
	assert.Equal(t, "/project/src/icomoon/fonts", dir.Source.Base)
	assert.False(t, dir.Flatten)

	files := domain.CopyFiles("/project/src/*.html", "/project/dist")
	assert.True(t, files.Flatten)
	assert.Empty(t, files.Stages)
}
