package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

const attachmentsDir = "tasks_attachments"

// Attachments stores task attachments under a per-task namespace of a
// BlobStore.
type Attachments struct {
	store BlobStore
}

func NewAttachments(store BlobStore) *Attachments {
	return &Attachments{store: store}
}

// Store writes u below the namespace of taskID and returns its opaque path.
func (a *Attachments) Store(ctx context.Context, taskID string, u *Upload) (string, error) {
	name := uuid.NewString()
	if ext := u.Extension(); ext != "" {
		name += "." + ext
	}
	blobPath := path.Join(attachmentsDir, taskID, name)

	if err := a.store.Put(ctx, blobPath, u.Content, u.Size, u.ContentType); err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}
	return blobPath, nil
}

func (a *Attachments) Open(ctx context.Context, blobPath string) (io.ReadCloser, *BlobInfo, error) {
	return a.store.Open(ctx, blobPath)
}

// Remove deletes the blob at blobPath; a missing blob is not an error.
func (a *Attachments) Remove(ctx context.Context, blobPath string) error {
	if err := a.store.Delete(ctx, blobPath); err != nil && !errors.Is(err, ErrBlobNotFound) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}
