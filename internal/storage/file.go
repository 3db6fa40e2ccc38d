package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const fileExt = ".json"

// FileKV stores each key as a JSON file under a board directory.
type FileKV struct {
	basePath string
}

// NewFileKV creates a FileKV rooted at path. The directory is created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{basePath: path}
}

// keyPath returns the full path for a key file.
func (s *FileKV) keyPath(key string) string {
	return filepath.Join(s.basePath, key+fileExt)
}

// Get reads a key from disk.
func (s *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	content, err := os.ReadFile(s.keyPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return content, true, nil
}

// Set writes a key to disk via a temp file and rename so readers never see a torn file.
func (s *FileKV) Set(_ context.Context, key string, value []byte) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible board directory
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("create board directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.basePath, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op once renamed

	if _, err = tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	//nolint:gosec // G302: board files are user-readable
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err = os.Rename(tmpName, s.keyPath(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes a key file. Missing keys are not an error.
func (s *FileKV) Delete(_ context.Context, key string) error {
	err := os.Remove(s.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op for files.
func (s *FileKV) Close() error {
	return nil
}
