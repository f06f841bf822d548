// Package snapshot persists the whole engine state as a versioned JSON blob.
// Writes go to a temp file first and land with an atomic rename so a crash
// mid-write never corrupts the previous snapshot.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/facility"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
)

// Version is bumped whenever the snapshot layout changes incompatibly.
const Version = 1

// State is the full serializable engine state.
type State struct {
	Version  int                `json:"version"`
	SavedAt  time.Time          `json:"saved_at"`
	Wards    []*facility.Ward   `json:"wards"`
	Staff    []*staff.Staff     `json:"staff"`
	Patients []*patient.Patient `json:"patients"`
}

// ErrNoSnapshot is returned by Load when no snapshot file exists yet.
var ErrNoSnapshot = errors.New("no snapshot file")

// Store reads and writes snapshots at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save encodes the state and atomically replaces the previous snapshot.
func (s *Store) Save(state *State) error {
	state.Version = Version
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load decodes the snapshot at the store's path.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", state.Version)
	}
	return state, nil
}
