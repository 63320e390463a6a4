package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rezkam/listor/internal/storage"
)

// Store is a filesystem-based implementation of storage.BlobStore. Objects
// live as files under a base directory and are served from a configured
// public base URL.
type Store struct {
	baseDir string
	baseURL string
	mu      sync.RWMutex
}

// NewStore creates a new filesystem store. baseURL is the public prefix
// objects are served from, e.g. "http://localhost:8081/static".
func NewStore(baseDir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.baseDir, filepath.Base(name))
}

// Put writes an object, replacing any previous content.
func (s *Store) Put(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}

	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, filepath.Base(name)), nil
}

// Get opens an object for reading.
func (s *Store) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes an object. Missing objects are ignored.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// DeletePrefix removes every object whose name starts with prefix.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.baseDir, filepath.Base(prefix)+"*"))
	if err != nil {
		return fmt.Errorf("failed to glob files: %w", err)
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file: %w", err)
		}
	}
	return nil
}
