// Package filestore persists the configuration entry as a YAML document.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/water-restriction-etl/internal/entry"
	"gopkg.in/yaml.v3"
)

// Store implements entry.Store on a single YAML file.
type Store struct {
	path string
}

// New returns a store backed by the file at path. The file is created on the
// first Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the entry, returning entry.ErrNotFound when the file does not exist.
func (s *Store) Load(_ context.Context) (entry.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entry.Entry{}, entry.ErrNotFound
	}
	if err != nil {
		return entry.Entry{}, fmt.Errorf("read entry file: %w", err)
	}

	var e entry.Entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return entry.Entry{}, fmt.Errorf("parse entry file %s: %w", s.path, err)
	}
	if e.ID == "" {
		return entry.Entry{}, fmt.Errorf("parse entry file %s: missing entry_id", s.path)
	}
	return e, nil
}

// Save writes the entry through a temporary file renamed over the target, so
// a crash never leaves a truncated entry behind.
func (s *Store) Save(_ context.Context, e entry.Entry) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create entry dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".entry-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp entry file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write entry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close entry file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace entry file: %w", err)
	}
	return nil
}
