/*
Package jsonfile provides a file-backed StateStore.

PURPOSE:
  Persists the entire State as one JSON document on disk. This is the
  simplest production store: no schema, no migrations, the document IS the
  database.

FAIL-OPEN LOAD:
  A missing file means a fresh deployment, so Load returns an empty State
  and no error. An unreadable or corrupt file is logged and also yields an
  empty State - the system starts over rather than refusing to start.
  Save still surfaces errors; only the read side fails open.

ATOMIC REPLACE:
  Save writes to a temp file in the same directory and renames it over the
  document. Rename is atomic on POSIX filesystems, so readers never observe
  a half-written document, even if the process dies mid-write.

SEE ALSO:
  - pos/store.go: The interface and whole-document contract
  - store/sqlite: Database-backed alternative
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/warp/pos-engine/pos"
)

// DefaultFileName is the document name inside the data directory.
const DefaultFileName = "pos-data.json"

// Store persists State as a single JSON document.
type Store struct {
	path string
}

// New creates a store writing to dir/pos-data.json. The directory is
// created if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, DefaultFileName)}, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads the document. Missing or unreadable documents yield an empty
// State and nil error (fail-open).
func (s *Store) Load(_ context.Context) (*pos.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("jsonfile: read %s failed, starting empty: %v", s.path, err)
		}
		return pos.NewState(), nil
	}

	state := pos.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		log.Printf("jsonfile: parse %s failed, starting empty: %v", s.path, err)
		return pos.NewState(), nil
	}
	return state, nil
}

// Save replaces the document atomically.
func (s *Store) Save(_ context.Context, state *pos.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".pos-data-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}
