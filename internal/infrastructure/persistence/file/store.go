// Package file implements JSON-file persistence for program snapshots.
// It is the default store: a single student tracking a single program keeps
// one snapshot file, the same shape the other stores use.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// Store implements program.Repository on a single JSON file.
type Store struct {
	path string
}

// NewStore creates a store for the given file path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file: store path is required")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the program snapshot. The write goes through a temp file and
// rename so a crash mid-write cannot leave a truncated snapshot.
func (s *Store) Save(_ context.Context, p *program.Program) error {
	data, err := json.MarshalIndent(p.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("file: failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("file: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file and rebuilds the aggregate. The name must
// match the stored program; a single-snapshot store holds exactly one.
func (s *Store) Load(_ context.Context, name string) (*program.Program, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.NewDomainError("program", "Load", shared.ErrNotFound,
			"no snapshot file at "+s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("file: failed to read snapshot: %w", err)
	}

	var snap program.ProgramSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("file: failed to unmarshal snapshot: %w", err)
	}
	p, err := program.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if name != "" && p.Name() != name {
		return nil, shared.NewDomainError("program", "Load", shared.ErrNotFound,
			"snapshot holds program "+p.Name()+", not "+name)
	}
	return p, nil
}
