// Package local implements the local filesystem media backend.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage writes media under an uploads root on the local filesystem,
// sub-keyed by destination category.
type Storage struct {
	basePath string
}

// New creates a local backend rooted at basePath (default "data/uploads").
func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "data/uploads"
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// PutObject writes the file under {basePath}/{category}/{filename}.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	fullPath := s.keyToPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create category directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// GetObject opens the stored file for reading.
func (s *Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath := s.keyToPath(key)

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s", key)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}

// DeleteObject removes the stored file and prunes an emptied category dir.
func (s *Storage) DeleteObject(ctx context.Context, key string) error {
	fullPath := s.keyToPath(key)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // already deleted
		}
		return fmt.Errorf("delete file: %w", err)
	}

	// Remove the category directory if empty; errors are ignored when it
	// still holds other uploads.
	os.Remove(filepath.Dir(fullPath))

	return nil
}

// ObjectExists checks for the stored file.
func (s *Storage) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}

	return true, nil
}

// StoredURL returns the relative canonical path for the asset.
func (s *Storage) StoredURL(ctx context.Context, key string) (string, error) {
	return "uploads/" + key, nil
}

// Type returns "local" as the backend identifier.
func (s *Storage) Type() string {
	return "local"
}

func (s *Storage) keyToPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

// BasePath returns the uploads root of the backend.
func (s *Storage) BasePath() string {
	return s.basePath
}
