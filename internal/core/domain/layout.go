package domain

import "path/filepath"

const (
	// KilnDirName is the name of the internal workspace directory.
	KilnDirName = ".kiln"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "kiln.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// OutputDirPerm is the permission for directories under dist, which a web server must traverse.
	OutputDirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the build info store.
// It joins .kiln and store.
func DefaultStorePath() string {
	return filepath.Join(KilnDirName, StoreDirName)
}
