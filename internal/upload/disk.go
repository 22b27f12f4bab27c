package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes uploads to a local directory served at a public path.
type DiskStore struct {
	dir        string
	publicPath string
}

// NewDiskStore creates the upload directory if needed and returns a store
// writing into it. publicPath is the URL prefix files are served under,
// e.g. "/uploads".
func NewDiskStore(dir, publicPath string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
	}, nil
}

// Dir returns the directory uploads are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the file and returns its public URL.
func (s *DiskStore) Save(_ context.Context, filename string, data []byte, _ string) (string, error) {
	// Reject anything that would escape the upload directory.
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return s.publicPath + "/" + filename, nil
}

// Remove deletes the stored file. Removing a missing file is not an error.
func (s *DiskStore) Remove(_ context.Context, filename string) error {
	if filepath.Base(filename) != filename {
		return fmt.Errorf("invalid filename %q", filename)
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
