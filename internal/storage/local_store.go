package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs as files below a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// resolve maps a blob path into the root, refusing anything that escapes it.
func (s *LocalStore) resolve(blobPath string) (string, error) {
	clean := path.Clean("/" + blobPath)
	if clean == "/" || strings.Contains(blobPath, "..") {
		return "", fmt.Errorf("invalid blob path %q", blobPath)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *LocalStore) Put(_ context.Context, blobPath string, r io.Reader, _ int64, _ string) error {
	full, err := s.resolve(blobPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("write blob: %w", err)
	}
	return f.Close()
}

func (s *LocalStore) Open(_ context.Context, blobPath string) (io.ReadCloser, *BlobInfo, error) {
	full, err := s.resolve(blobPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat blob: %w", err)
	}

	return f, &BlobInfo{
		Path:        blobPath,
		Size:        stat.Size(),
		ContentType: contentTypeFor(blobPath),
		ModTime:     stat.ModTime(),
	}, nil
}

func (s *LocalStore) Exists(_ context.Context, blobPath string) (bool, error) {
	full, err := s.resolve(blobPath)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *LocalStore) Delete(_ context.Context, blobPath string) error {
	full, err := s.resolve(blobPath)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func contentTypeFor(blobPath string) string {
	if ct := mime.TypeByExtension(path.Ext(blobPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
