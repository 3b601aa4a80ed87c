package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes posters straight to disk. The directory is served by
// the router under /static/posters.
type LocalStore struct {
	dir string
}

func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

func (l *LocalStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	f, err := os.Create(filepath.Join(l.dir, filepath.Base(key)))
	if err != nil {
		return fmt.Errorf("failed to create poster file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write poster file, %w", err)
	}

	return nil
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete poster file, %w", err)
	}

	return nil
}

func (l *LocalStore) URL(key string) string {
	return "/static/posters/" + filepath.Base(key)
}
