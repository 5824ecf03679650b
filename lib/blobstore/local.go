package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as files under a root directory
type LocalStore struct {
	root   string
	prefix string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root, prefix string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("blob root directory cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &LocalStore{root: root, prefix: prefix}, nil
}

// Put writes r to a new file and returns its handle
func (s *LocalStore) Put(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	handle := newKey(s.prefix, filename)
	full := filepath.Join(s.root, filepath.FromSlash(handle))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("short write: %d of %d bytes", written, size)
	}
	if err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return handle, nil
}

// Open returns a reader for a stored blob
func (s *LocalStore) Open(ctx context.Context, handle string) (io.ReadCloser, error) {
	if err := validHandle(handle); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(handle)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete removes a stored blob; deleting a missing blob is not an error
func (s *LocalStore) Delete(ctx context.Context, handle string) error {
	if err := validHandle(handle); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(handle)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
