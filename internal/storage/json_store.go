package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore implements the Backend interface using a single JSON file that
// holds the whole module collection. Every save is a full overwrite, mirroring
// the single-key storage model the editor relies on.
type FileStore struct {
	// Path is the location of the collection file.
	Path string
}

// NewFileStore creates a new FileStore instance.
// It ensures the parent directory exists.
func NewFileStore(path string) (*FileStore, error) {
	// Use os.MkdirAll for robust directory creation
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory for '%s': %w", path, err)
	}
	return &FileStore{Path: path}, nil
}

// Location returns the collection file path.
func (fs *FileStore) Location() string {
	return fs.Path
}

// Load reads the serialized collection from disk. A missing file surfaces as
// an error wrapping os.ErrNotExist so callers can fall back to the seed.
func (fs *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("collection file %s not found: %w", fs.Path, err)
		}
		return nil, fmt.Errorf("failed to read collection file %s: %w", fs.Path, err)
	}
	return data, nil
}

// Save overwrites the collection file with the given serialized data.
func (fs *FileStore) Save(data []byte) error {
	// Use os.WriteFile for simpler file writing
	if err := os.WriteFile(fs.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write collection file %s: %w", fs.Path, err)
	}
	return nil
}
