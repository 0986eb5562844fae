package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwaldt/cfpbflow/internal/logger"
)

// FileStore persists the checkpoint as a single JSON document on local disk.
// One running pipeline instance owns the file; concurrent runs are not
// guarded against beyond the atomicity of rename.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read returns the persisted state. A missing or malformed file reads as the
// absent state rather than an error.
func (fs *FileStore) Read() (State, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read state file %s: %v, treating as absent", fs.path, err)
		}
		return State{}, nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Malformed state file %s: %v, treating as absent", fs.path, err)
		return State{}, nil
	}
	return st, nil
}

// Write persists the state atomically via a temp file and rename.
func (fs *FileStore) Write(st State) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Reset deletes the state file. Resetting an already-absent state is a no-op.
func (fs *FileStore) Reset() error {
	if err := os.Remove(fs.path); err != nil {
		if os.IsNotExist(err) {
			logger.Info("State file %s does not exist (already reset)", fs.path)
			return nil
		}
		return fmt.Errorf("remove state file: %w", err)
	}
	logger.Info("State file %s deleted", fs.path)
	return nil
}
