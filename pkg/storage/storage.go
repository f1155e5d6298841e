// Package storage defines the backend abstraction for stored catalog media.
// Uploads are keyed by "{category}/{filename}" where the category is the
// logical destination tag ("colors", "laminates", "hero", ...) chosen by the
// admin UI and the filename was generated by the upload pipeline.
package storage

import (
	"context"
	"io"
)

// Storage is implemented by every media backend (local filesystem,
// S3-compatible object storage).
type Storage interface {
	// PutObject stores file content under key "{category}/{filename}".
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves stored content. The returned ReadCloser must be
	// closed by the caller.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteObject removes stored content. Deleting a missing object is
	// not an error.
	DeleteObject(ctx context.Context, key string) error

	// ObjectExists reports whether content is stored under key.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// StoredURL returns the reference recorded for the asset. Local and
	// proxied S3 backends return the relative canonical path
	// "uploads/{category}/{filename}"; presigned S3 returns an absolute
	// URL. Relative references are resolved for display by pkg/asseturl.
	StoredURL(ctx context.Context, key string) (string, error)

	// Type returns the backend identifier ("local" or "s3").
	Type() string
}
