// Package baseline persists the single trusted snapshot a detection run
// compares against. The baseline is written once during baseline capture and
// loaded read-only at detection start; nothing mutates it in place, so one
// loaded baseline may be shared across concurrent detection runs.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"driftguard/internal/snapshot"
)

// ErrNotFound is returned when no baseline has been captured yet.
var ErrNotFound = errors.New("baseline not found")

// ErrCorrupt is returned when the baseline file exists but cannot be parsed.
var ErrCorrupt = errors.New("baseline corrupt")

// Store manages baseline persistence at a fixed path.
type Store struct {
	Path string // Baseline file location
}

// NewStore creates a store for the given baseline file.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// DefaultPath returns the default baseline location
// (~/.driftguard/baseline.json).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".driftguard", "baseline.json")
	}
	return filepath.Join(home, ".driftguard", "baseline.json")
}

// Save writes the snapshot as the trusted baseline, replacing any previous
// one. Parent directories are created as needed.
func (s *Store) Save(snap snapshot.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0600)
}

// Load reads the trusted baseline. Returns ErrNotFound when no baseline has
// been captured and ErrCorrupt (wrapped with the file name) when the file
// cannot be parsed.
func (s *Store) Load() (snapshot.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return snapshot.Snapshot{}, err
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.Path, err)
	}

	return snap, nil
}

// Exists checks whether a baseline has been captured.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}
