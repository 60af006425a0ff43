// Package persist saves annotation state to JSON files and keeps
// snapshots of a session in a sqlite database.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/state"
)

// ErrNotFound is returned when a snapshot does not exist
var ErrNotFound = errors.New("not found")

// SaveFile writes the state as indented JSON. The file is replaced
// atomically so readers never see a partial write.
func SaveFile(path string, st state.State) error {
	data, err := state.MarshalIndent(st)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// LoadFile reads a state written by SaveFile
func LoadFile(path string) (state.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return state.State{}, fmt.Errorf("failed to read state: %w", err)
	}
	return state.Unmarshal(data)
}

func writeAtomic(path string, data []byte) (retErr error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	logger.Logger().Debug("file written", "path", path, "bytes", len(data))
	return nil
}
