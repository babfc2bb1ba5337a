package session

import (
	"context"
	"errors"
)

// Sentinel errors for store operations and merge validation.
var (
	ErrInvalidField = errors.New("invalid field value")
	ErrLoadFailed   = errors.New("session load failed")
	ErrSaveFailed   = errors.New("session save failed")
)

// Store is the durable mapping from session id to conversation state.
// Load never fails with "not found": an unknown id yields the empty default
// state. Implementations must be safe for concurrent use across sessions;
// turns for the same session are not isolated from each other (last writer
// wins).
type Store interface {
	// Load returns the state for a session id, or a fresh default state for
	// an unknown id. The returned state is owned by the caller.
	Load(ctx context.Context, sessionID string) (*State, error)
	// Save persists the complete state under the session id, overwriting
	// any previous value.
	Save(ctx context.Context, sessionID string, state *State) error
}
