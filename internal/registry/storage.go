package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Storage loads and saves the full ordered list of canonical names. Save must
// replace the stored list atomically: readers observe either the previous
// snapshot or the new one, never a partial write.
type Storage interface {
	Load() ([]string, error)
	Save(names []string) error
}

// FileStore keeps the registry as a JSON array in a single file.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a store for path on the given filesystem. A nil fs
// uses the operating system filesystem.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs, path: path}
}

// Path returns the registry file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the registry file. A missing file is an empty registry.
func (s *FileStore) Load() ([]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Save writes names to a temporary file next to the registry and renames it
// over the registry file.
func (s *FileStore) Save(names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp registry file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to sync temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp registry file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace registry file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Storage, used by tests and by callers that do
// not want the registry on disk.
type MemoryStore struct {
	mu    sync.Mutex
	names []string
	saves int
}

// NewMemoryStore creates a store pre-populated with names.
func NewMemoryStore(names ...string) *MemoryStore {
	return &MemoryStore{names: append([]string(nil), names...)}
}

// Load returns a copy of the stored names.
func (s *MemoryStore) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.names...), nil
}

// Save replaces the stored names with a copy of names.
func (s *MemoryStore) Save(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append([]string{}, names...)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
