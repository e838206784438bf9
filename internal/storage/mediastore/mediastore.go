package mediastore

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"blogd/internal/storage"

	"github.com/google/uuid"
)

// UploadResult is the stable reference to a stored image: the public URL and
// the opaque handle used to delete it later.
type UploadResult struct {
	URL      string
	PublicID string
}

// MediaStore uploads post images to an external host and deletes them by
// public id. Delete errors are reported to the caller, who decides whether
// they are fatal; the blog service treats them as best-effort cleanup.
type MediaStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
	ExtractPublicID(url string) string
}

// objectKey builds a unique storage key preserving the original extension.
func objectKey(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("blogs/%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)
}

func validateFile(file *multipart.FileHeader, maxSize int64) error {
	if maxSize > 0 && file.Size > maxSize {
		return storage.ErrFileTooLarge
	}

	if ct := file.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return storage.ErrInvalidFileType
	}

	return nil
}
