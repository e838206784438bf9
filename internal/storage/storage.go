package storage

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
)
