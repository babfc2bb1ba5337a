package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

type fileStore struct {
	root string
}

// NewFileStore creates a Store that keeps one JSON file per session under
// root. Useful for local development where inspecting state by hand beats
// opening a database. Writes are atomic (temp file + rename).
func NewFileStore(root string) Store {
	return &fileStore{root: root}
}

func (s *fileStore) path(sessionID string) string {
	// Session ids are caller-supplied free text; escape them so they cannot
	// traverse outside root.
	return filepath.Join(s.root, url.PathEscape(sessionID)+".json")
}

func (s *fileStore) Load(_ context.Context, sessionID string) (*State, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return NewState(), nil
	}
	return state, nil
}

func (s *fileStore) Save(_ context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := os.Rename(tmpName, s.path(sessionID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}
