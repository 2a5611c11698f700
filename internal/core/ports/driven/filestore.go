package driven

import (
	"context"
	"io"
)

// FileStore keeps the bytes of uploaded documents.
type FileStore interface {
	// Put writes r under name and returns the stored path and size.
	Put(ctx context.Context, name string, r io.Reader) (path string, size int64, err error)

	// Open returns a reader for a stored path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes a stored path. Missing files are not an error.
	Remove(ctx context.Context, path string) error
}
