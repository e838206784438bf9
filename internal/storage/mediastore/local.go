package mediastore

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps images on the local filesystem, served under baseURL.
// The public id is the path relative to baseDir, slash-separated.
type LocalStore struct {
	baseDir     string
	baseURL     string
	maxFileSize int64
}

func NewLocalStore(baseDir, baseURL string, maxFileSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalStore{
		baseDir:     baseDir,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		maxFileSize: maxFileSize,
	}, nil
}

func (s *LocalStore) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	const op = "storage.mediastore.LocalStore.Upload"

	if err := validateFile(file, s.maxFileSize); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := objectKey(file.Filename)
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("%s: failed to create directories: %w", op, err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open source file: %w", op, err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(fullPath)
			return nil, fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(fullPath)
		return nil, ctx.Err()
	}

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		PublicID: key,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	const op = "storage.mediastore.LocalStore.Delete"

	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(publicID))); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *LocalStore) ExtractPublicID(url string) string {
	if strings.HasPrefix(url, s.baseURL+"/") {
		return strings.TrimPrefix(url, s.baseURL+"/")
	}

	return ""
}

// BaseDir is where uploaded files live, for static serving.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}
