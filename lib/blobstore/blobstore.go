// Package blobstore holds uploaded document bytes behind opaque handles.
// Callers never interpret a handle; they only pass it back to the store.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/mangrove-registry/utils"
)

// ErrNotFound is returned when a handle does not resolve to stored bytes
var ErrNotFound = errors.New("blob not found")

// Store accepts bytes and a suggested file name and returns a handle
type Store interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, handle string) (io.ReadCloser, error)
	Delete(ctx context.Context, handle string) error
}

// newKey builds a unique key under prefix that keeps the sanitized name
// readable for operators browsing the bucket or directory.
func newKey(prefix, filename string) string {
	return path.Join(prefix, uuid.NewString()+"-"+utils.SanitizeFileName(filename))
}

// validHandle rejects handles that could escape the store's root
func validHandle(handle string) error {
	if handle == "" || strings.HasPrefix(handle, "/") || strings.Contains(handle, "\\") {
		return fmt.Errorf("invalid blob handle %q", handle)
	}
	for _, part := range strings.Split(handle, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("invalid blob handle %q", handle)
		}
	}
	return nil
}

// Filename returns the display name embedded in a handle
func Filename(handle string) string {
	base := path.Base(handle)
	// strip the uuid prefix added by newKey
	if len(base) > 37 && base[36] == '-' {
		if _, err := uuid.Parse(base[:36]); err == nil {
			return base[37:]
		}
	}
	return base
}
