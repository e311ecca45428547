// Package prefs persists small string key/value preferences across runs.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const fileName = "state.yaml"

// Store is a string key/value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// FileStore keeps every key in one YAML file under dir.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	values map[string]string
	loaded bool
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDir returns the per-user state directory.
func DefaultDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "gjmap")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "gjmap")
	}
	return filepath.Join(os.TempDir(), "gjmap")
}

func (s *FileStore) Path() string { return filepath.Join(s.dir, fileName) }

// Get returns the stored value; a missing key is "" with no error.
func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", err
	}
	return s.values[key], nil
}

// Set stores value and writes the file.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	s.values[key] = value
	return s.save()
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.values = map[string]string{}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return fmt.Errorf("parse %s: %w", s.Path(), err)
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.loaded = true
	return nil
}

func (s *FileStore) save() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return err
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path())
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}
