package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrBlobNotFound = errors.New("blob not found")

type BlobInfo struct {
	Path        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// BlobStore holds opaque blobs addressed by slash-separated relative paths.
type BlobStore interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	// Open returns ErrBlobNotFound when path holds nothing.
	Open(ctx context.Context, path string) (io.ReadCloser, *BlobInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete is a no-op for absent paths.
	Delete(ctx context.Context, path string) error
}
