// Package filedb keeps the visitor counter in a small JSON file.
package filedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"scraper/pkg/counter"
)

type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by the file at path. The file and its
// directory are created on the first increment.
func New(path string) *Store {
	return &Store{path: path}
}

// Increment reads the current value, adds one and writes it back.
// The new content is written to a temporary file and renamed over the old one.
func (s *Store) Increment(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return 0, err
	}
	v.Count++

	if err := s.save(v); err != nil {
		return 0, err
	}

	return v.Count, nil
}

// Read returns the stored value, zero when the file does not exist yet.
func (s *Store) Read(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return 0, err
	}

	return v.Count, nil
}

func (s *Store) load() (counter.Visitors, error) {
	var v counter.Visitors

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("failed to read counter file: %w", err)
	}

	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("failed to parse counter file %s: %w", s.path, err)
	}

	return v, nil
}

func (s *Store) save(v counter.Visitors) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create counter directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".visitors-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary counter file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write counter file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
