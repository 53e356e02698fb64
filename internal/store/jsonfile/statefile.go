// Package jsonfile persists the application state as a single JSON
// document on disk. The whole state is written on every save; there is no
// incremental write and no schema migration beyond "absent means start
// fresh".
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/burner/internal/core/burner"
)

// StateFile stores the full AppState blob at a fixed path. It implements
// the store's Persister contract.
type StateFile struct {
	path string
	mu   sync.Mutex
}

// NewStateFile creates a state file store at the given path. The file is
// not created until the first Save.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Path returns the location of the state file.
func (f *StateFile) Path() string {
	return f.path
}

// Load reads the stored state. ok is false when the file does not exist
// or is empty; a file that exists but cannot be decoded is an error, which
// the store treats as "start fresh" rather than failing startup.
func (f *StateFile) Load() (burner.AppState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return burner.AppState{}, false, nil
		}
		return burner.AppState{}, false, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return burner.AppState{}, false, nil
	}

	var state burner.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return burner.AppState{}, false, fmt.Errorf("decode state file: %w", err)
	}

	return state, true, nil
}

// Save writes the full state to disk atomically via a temp file rename.
func (f *StateFile) Save(state burner.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return os.Rename(tmp, f.path)
}
