package ports

// Hasher defines the interface for computing content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash computes the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)

	// ComputeOutputHash computes one digest over the given files, relative to root.
	// The order of outputs does not affect the result.
	ComputeOutputHash(outputs []string, root string) (string, error)
}
