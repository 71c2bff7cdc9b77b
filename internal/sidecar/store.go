package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when no sidecar exists for a show.
var ErrNotFound = errors.New("sidecar record not found")

// Store reads and writes sidecar records under the destination root.
// Layout per show: <root>/<short_name>/<short_name>.json next to
// <root>/<short_name>/<short_name>-newest.mp3.
type Store struct {
	root string
}

// NewStore constructs a store rooted at the destination folder.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Dir returns the per-show directory.
func (s *Store) Dir(shortName string) string {
	return filepath.Join(s.root, shortName)
}

// Path returns the sidecar file location for a show.
func (s *Store) Path(shortName string) string {
	return filepath.Join(s.Dir(shortName), shortName+".json")
}

// AudioPath returns the single retained recording location for a show.
func (s *Store) AudioPath(shortName string) string {
	return filepath.Join(s.Dir(shortName), shortName+"-newest.mp3")
}

// EnsureDir creates the per-show directory when missing and reports
// whether it had to be created. A new directory appearing in steady-state
// operation means a new show and is worth human attention.
func (s *Store) EnsureDir(shortName string) (bool, error) {
	dir := s.Dir(shortName)
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat show directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create show directory: %w", err)
	}
	return true, nil
}

// Load reads the sidecar record for a show. Returns ErrNotFound when the
// show has never completed a download.
func (s *Store) Load(shortName string) (Record, error) {
	data, err := os.ReadFile(s.Path(shortName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read sidecar: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse sidecar %s: %w", s.Path(shortName), err)
	}
	return rec, nil
}

// Write persists the record atomically via a temp file rename.
func (s *Store) Write(shortName string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(shortName)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace sidecar file: %w", err)
	}
	return nil
}
