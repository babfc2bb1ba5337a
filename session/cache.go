package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type cachedStore struct {
	store Store
	cache *gocache.Cache
}

// NewCachedStore wraps a Store with a read-through cache, sparing the
// backing store a read per turn for hot sessions. Saves write through and
// refresh the cached copy. Entries expire after ttl so abandoned sessions
// do not pin memory.
//
// The cache shares the backing store's concurrency contract: overlapping
// turns on one session id still race, cached or not.
func NewCachedStore(store Store, ttl time.Duration) Store {
	return &cachedStore{
		store: store,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *cachedStore) Load(ctx context.Context, sessionID string) (*State, error) {
	if v, ok := s.cache.Get(sessionID); ok {
		return v.(*State).Clone(), nil
	}

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(sessionID, state.Clone())
	return state, nil
}

// Close forwards to the backing store when it holds resources.
func (s *cachedStore) Close() error {
	if c, ok := s.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (s *cachedStore) Save(ctx context.Context, sessionID string, state *State) error {
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		// The backing store owns the truth; drop the cached copy rather
		// than serve state the store may not have.
		s.cache.Delete(sessionID)
		return err
	}
	s.cache.SetDefault(sessionID, state.Clone())
	return nil
}
