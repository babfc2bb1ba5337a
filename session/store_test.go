package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yalla-trip/concierge/core/protocol"
)

// storeFactories builds each Store backend against a temp directory so the
// same contract tests run over all of them.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": NewMemoryStore,
		"file": func() Store {
			return NewFileStore(t.TempDir())
		},
		"sqlite": func() Store {
			s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore failed: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStore_UnknownSessionYieldsDefaultState(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			state, err := factory().Load(context.Background(), "never-seen")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(state.History) != 0 {
				t.Errorf("history length = %d, want 0", len(state.History))
			}
			if state.TripSpec.Destination != nil {
				t.Errorf("destination = %v, want unset", *state.TripSpec.Destination)
			}
		})
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory()

			state := NewState()
			state.TripSpec.Destination = strPtr("London")
			state.History = append(state.History,
				protocol.NewMessage(protocol.RoleUser, "hello"),
				protocol.NewMessage(protocol.RoleAssistant, "hi there"),
			)

			if err := store.Save(ctx, "s1", state); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := store.Load(ctx, "s1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.TripSpec.Destination == nil || *got.TripSpec.Destination != "London" {
				t.Errorf("destination = %v, want London", got.TripSpec.Destination)
			}
			if len(got.History) != 2 {
				t.Errorf("history length = %d, want 2", len(got.History))
			}

			// Mutating the loaded copy must not leak back into the store.
			got.History = append(got.History, protocol.NewMessage(protocol.RoleUser, "again"))
			reloaded, err := store.Load(ctx, "s1")
			if err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if len(reloaded.History) != 2 {
				t.Errorf("history length after aliasing = %d, want 2", len(reloaded.History))
			}
		})
	}
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := NewState()
	a.TripSpec.Destination = strPtr("Oslo")
	if err := store.Save(ctx, "a", a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	b, err := store.Load(ctx, "b")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.TripSpec.Destination != nil {
		t.Errorf("session b sees session a's destination %q", *b.TripSpec.Destination)
	}
}

// flakyStore fails Save on demand to exercise the cache decorator.
type flakyStore struct {
	Store
	failSave bool
	loads    int
}

func (f *flakyStore) Load(ctx context.Context, id string) (*State, error) {
	f.loads++
	return f.Store.Load(ctx, id)
}

func (f *flakyStore) Save(ctx context.Context, id string, state *State) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, id, state)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := &flakyStore{Store: NewMemoryStore()}
	store := NewCachedStore(backing, time.Minute)

	state := NewState()
	state.TripSpec.Destination = strPtr("Kyoto")
	if err := store.Save(ctx, "s", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := store.Load(ctx, "s")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got.TripSpec.Destination == nil || *got.TripSpec.Destination != "Kyoto" {
			t.Fatalf("destination = %v, want Kyoto", got.TripSpec.Destination)
		}
	}

	if backing.loads != 0 {
		t.Errorf("backing store loads = %d, want 0 (cache hit expected)", backing.loads)
	}
}

func TestCachedStore_FailedSaveDropsCacheEntry(t *testing.T) {
	ctx := context.Background()
	backing := &flakyStore{Store: NewMemoryStore()}
	store := NewCachedStore(backing, time.Minute)

	state := NewState()
	state.TripSpec.Destination = strPtr("Lima")
	if err := store.Save(ctx, "s", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	backing.failSave = true
	state.TripSpec.Destination = strPtr("Cusco")
	if err := store.Save(ctx, "s", state); err == nil {
		t.Fatal("expected save error")
	}

	// The cached copy must not outlive a failed write: the next load
	// re-reads the backing store's last good state.
	got, err := store.Load(ctx, "s")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.TripSpec.Destination == nil || *got.TripSpec.Destination != "Lima" {
		t.Errorf("destination = %v, want Lima (backing store truth)", got.TripSpec.Destination)
	}
	if backing.loads == 0 {
		t.Error("expected a backing store load after failed save")
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	cfg := Config{Backend: "redis"}
	if _, err := NewStore(context.Background(), &cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
