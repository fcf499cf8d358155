// Package blob stores uploaded image bytes on the local filesystem.
// Writes go to a temp file that is fsynced and atomically renamed.
package blob

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/services"

	"github.com/google/uuid"
)

// FileStore keeps blobs under a single root directory.
type FileStore struct {
	root string
}

var _ services.BlobStore = (*FileStore)(nil)

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Save streams r to a new blob named after originalName.
func (s *FileStore) Save(r io.Reader, originalName string) (*services.SavedBlob, error) {
	name := storageName(originalName)
	fullPath := filepath.Join(s.root, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, &domain.StorageIOError{Op: "create", Path: name, Err: err}
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, &domain.StorageIOError{Op: "write", Path: name, Err: err}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, &domain.StorageIOError{Op: "sync", Path: name, Err: err}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, &domain.StorageIOError{Op: "close", Path: name, Err: err}
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, &domain.StorageIOError{Op: "rename", Path: name, Err: err}
	}

	return &services.SavedBlob{StoragePath: name, Filename: name, Size: size}, nil
}

// Open opens a blob for reading. The caller closes it.
func (s *FileStore) Open(storagePath string) (io.ReadCloser, error) {
	full, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.StorageIOError{Op: "open", Path: storagePath, Err: errors.New("blob missing")}
		}
		return nil, &domain.StorageIOError{Op: "open", Path: storagePath, Err: err}
	}
	return f, nil
}

// Delete removes a blob. A blob that is already gone is not an error.
func (s *FileStore) Delete(storagePath string) error {
	full, err := s.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.StorageIOError{Op: "delete", Path: storagePath, Err: err}
	}
	return nil
}

// Exists reports whether a blob is present.
func (s *FileStore) Exists(storagePath string) bool {
	full, err := s.resolve(storagePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// resolve maps a storage path to a file under root, rejecting traversal.
func (s *FileStore) resolve(storagePath string) (string, error) {
	clean := filepath.Clean("/" + storagePath)
	if clean == "/" || strings.Contains(storagePath, "..") {
		return "", &domain.StorageIOError{Op: "resolve", Path: storagePath, Err: errors.New("invalid storage path")}
	}
	return filepath.Join(s.root, clean), nil
}

// storageName builds a unique, filesystem-safe blob name:
// {timestamp}-{uuid8}-{sanitized name}{ext}
func storageName(originalName string) string {
	base := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(base))
	name := sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "image"
	}

	ts := time.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("%s-%s-%s%s", ts, uuid.NewString()[:8], name, sanitize(ext))
}

// sanitize keeps ASCII letters, digits, '-', '_' and '.'.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
