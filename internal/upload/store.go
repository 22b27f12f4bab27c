// Package upload provides file storage backends for uploaded overlay
// images: local disk by default, Cloudflare R2 when configured.
package upload

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxSizeBytes is the upload size ceiling when none is configured.
const DefaultMaxSizeBytes = 10 << 20

// Validation errors.
var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed")
)

// Store persists uploaded files under their generated names and returns the
// public URL clients load them from.
type Store interface {
	Save(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, filename string) error
}

// ValidateContentType accepts any image/* type, matching what browsers send
// for overlay uploads.
func ValidateContentType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrUnsupportedType
	}
	return nil
}

// ValidateFileSize checks the upload against the given ceiling.
func ValidateFileSize(sizeBytes, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSizeBytes
	}
	if sizeBytes <= 0 {
		return errors.New("file size must be positive")
	}
	if sizeBytes > maxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// NewFilename generates the stored name for an upload: a fresh uuid plus
// the original file's extension, so stored names never collide with each
// other or leak the original name.
func NewFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}
