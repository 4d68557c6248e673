package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// StateKey names the persisted chord list in every store.
const StateKey = "guitar-chords-state"

// Store persists the encoded chord list. Load returns nil data when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// FileStore keeps the list in <Dir>/guitar-chords-state.json.
type FileStore struct {
	Dir string
}

func (s FileStore) Path() string {
	return filepath.Join(s.Dir, StateKey+".json")
}

func (s FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save writes through a temporary file so a crash never leaves a torn list.
func (s FileStore) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, StateKey+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	return nil
}

// MemStore keeps the list in memory only.
type MemStore struct {
	mu   sync.Mutex
	data []byte
}

func (s *MemStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data), nil
}

func (s *MemStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.Clone(data)
	return nil
}
