package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists each key as a JSON file under basePath. It survives
// process restarts and serializes access so concurrent request goroutines
// don't interleave writes.
type FileStore struct {
	basePath string
	mu       sync.Mutex
}

func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) path(key string) (string, error) {
	cleanKey := filepath.Clean(key)
	fullPath := filepath.Join(s.basePath, cleanKey+".json")
	if !strings.HasPrefix(fullPath, s.basePath) {
		return "", fmt.Errorf("invalid cache key: %s", key)
	}
	return fullPath, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	// Write-then-rename so readers never observe a half-written file.
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to persist cache key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}
