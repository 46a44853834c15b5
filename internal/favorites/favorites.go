// Package favorites persists the user's favorite file paths as a small
// JSON document.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
)

// ErrCorrupt is returned when the favorites file exists but cannot be
// parsed.
var ErrCorrupt = errors.New("favorites file is corrupt")

type document struct {
	Files []string `json:"files"`
}

// Store reads and writes the favorites document at a fixed path. Every
// mutation rewrites the whole file.
type Store struct {
	path string
}

// Open returns a store at the default per-user data location.
func Open() (*Store, error) {
	path, err := xdg.DataFile("ripple/favorites.json")
	if err != nil {
		return nil, fmt.Errorf("resolve favorites path: %w", err)
	}
	return NewStore(path), nil
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// List returns the favorite paths in stored order. A missing file is an
// empty list, not an error.
func (s *Store) List() ([]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Files, nil
}

// Add appends path to the favorites unless it is already present.
func (s *Store) Add(path string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if slices.Contains(doc.Files, path) {
		return nil
	}
	doc.Files = append(doc.Files, path)
	return s.save(doc)
}

// Remove deletes path from the favorites. Removing a path that is not
// present succeeds.
func (s *Store) Remove(path string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(doc.Files, func(p string) bool { return p == path })
	if len(kept) == len(doc.Files) {
		return nil
	}
	doc.Files = kept
	return s.save(doc)
}

// Contains reports whether path is a favorite.
func (s *Store) Contains(path string) (bool, error) {
	doc, err := s.load()
	if err != nil {
		return false, err
	}
	return slices.Contains(doc.Files, path), nil
}

func (s *Store) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{Files: []string{}}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if doc.Files == nil {
		doc.Files = []string{}
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
