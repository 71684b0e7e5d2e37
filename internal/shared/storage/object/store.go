package object

import (
	"context"
	"io"
)

// ObjectStore abstracts storage of uploaded consent documents.
type ObjectStore interface {
	// Save persists the reader under the owner's namespace and returns the
	// storage key, size, and detected mime type.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (string, int64, string, error)
	// Open opens a stored object for reading.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Remove deletes a stored object. Callers use it to clean up documents
	// that failed ingestion.
	Remove(ctx context.Context, storageKey string) error
}
