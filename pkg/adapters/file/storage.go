package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

// Storage implements ports.ObjectStorage on the local filesystem.
// Objects live at <BasePath>/<bucket>/<key>.
type Storage struct {
	BasePath string
}

// New creates a new Storage with the given base path.
// If basePath is empty, it defaults to ".tally/reports".
func New(basePath string) *Storage {
	if basePath == "" {
		basePath = filepath.Join(".tally", "reports")
	}
	return &Storage{BasePath: basePath}
}

func (s *Storage) path(bucket, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key cannot be empty")
	}
	root := filepath.Join(s.BasePath, bucket)
	p := filepath.Join(root, filepath.FromSlash(key))
	if p != root && !strings.HasPrefix(p, root+string(filepath.Separator)) {
		return "", fmt.Errorf("object key %q escapes bucket", key)
	}
	return p, nil
}

// GetObject reads the object from disk.
func (s *Storage) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// PutObject writes the object atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Storage) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	destPath, err := s.path(bucket, key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure object directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(body); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing object for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to object: %w", err)
	}

	return nil
}
