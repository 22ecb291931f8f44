package ports

import "context"

// FileSystem is where output files are written. Implementations map paths
// to local files or to object keys; directories may be implicit.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the file at path. Missing parent directories are
	// created.
	WriteFile(ctx context.Context, path string, data []byte) error

	MkdirAll(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)

	// Remove deletes a file. Removing a missing file is not an error.
	Remove(ctx context.Context, path string) error
}
