// Package filestore keeps uploaded document bytes on the local filesystem.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Local implements the interface.
var _ driven.FileStore = (*Local)(nil)

// UploadsDir is the directory under the data dir holding uploaded files.
const UploadsDir = "uploads"

// Local stores files flat in one directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the storage directory.
func (l *Local) Dir() string {
	return l.dir
}

// Put copies r into dir/name. A partial file is removed on failure.
func (l *Local) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", 0, fmt.Errorf("%w: invalid stored file name %q", domain.ErrInvalidInput, name)
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", name, err)
	}

	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write %s: %w", name, err)
	}
	return path, size, nil
}

// Open returns a reader for a stored path.
func (l *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored path. Missing files are not an error.
func (l *Local) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
