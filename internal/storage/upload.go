package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "task-manager.com/task-manager/internal/errors"
)

const (
	// MaxAttachmentSize is the largest accepted attachment, in bytes.
	MaxAttachmentSize = 2 * 1024 * 1024

	sniffLen = 3072
)

// allowedAttachmentTypes maps each accepted extension to the MIME types its
// content may sniff as.
var allowedAttachmentTypes = map[string][]string{
	"jpg":  {"image/jpeg"},
	"jpeg": {"image/jpeg"},
	"png":  {"image/png"},
	"pdf":  {"application/pdf"},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// Upload is a client-supplied file whose leading bytes have already been
// sniffed. Content replays those bytes followed by the rest of the stream.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

func NewUpload(filename string, size int64, r io.Reader) (*Upload, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	return &Upload{
		Filename:    filename,
		Size:        size,
		ContentType: mimetype.Detect(head).String(),
		Content:     io.MultiReader(bytes.NewReader(head), r),
	}, nil
}

// Extension returns the lower-cased filename extension without the dot.
func (u *Upload) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(u.Filename), "."))
}

// ValidateUpload enforces the attachment type allow-list and size cap.
func ValidateUpload(u *Upload) error {
	const field = "attachment"

	if u.Size > MaxAttachmentSize {
		return apperrors.NewValidationError(field, fmt.Sprintf(
			"The %s field must not be greater than %d kilobytes.", field, MaxAttachmentSize/1024))
	}

	mimes, ok := allowedAttachmentTypes[u.Extension()]
	if !ok || !sniffedAs(u.ContentType, mimes) {
		return apperrors.NewValidationError(field,
			"The attachment field must be a file of type: jpg, jpeg, png, pdf, docx.")
	}
	return nil
}

func sniffedAs(contentType string, allowed []string) bool {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, candidate := range allowed {
		if mediaType == candidate {
			return true
		}
	}
	return false
}
