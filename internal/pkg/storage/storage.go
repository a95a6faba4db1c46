package storage

import (
	"context"
	"io"
	"time"
)

type FileStorage interface {
	// Upload writes a file and returns the stored path/key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a stored file.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// GetURL generates a URL for the file.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks whether a file is present.
	Exists(ctx context.Context, path string) (bool, error)
}
