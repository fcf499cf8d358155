package services

import "io"

// SavedBlob describes a blob written to storage
type SavedBlob struct {
	StoragePath string
	Filename    string
	Size        int64
}

// BlobStore persists uploaded image bytes
type BlobStore interface {
	Save(r io.Reader, originalName string) (*SavedBlob, error)
	Open(storagePath string) (io.ReadCloser, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(storagePath string) error
}
