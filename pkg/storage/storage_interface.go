package storage

import (
	"context"
	"io"
)

// StorageProvider is an object store bucket.
type StorageProvider interface {
	// PutObject stores r under objectName and returns the full object path.
	PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	// URL returns the public link for a full object path.
	URL(fullPath string) string
}
