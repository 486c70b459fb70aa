// ABOUTME: Test suite for the session store
// ABOUTME: Covers creation through the factory, capacity eviction, and TTL cleanup

package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/2389-research/starpr/kvstore"
	"github.com/2389-research/starpr/page"
)

// testFactory builds sessions over the test page, all sharing one key-value store.
func testFactory(t *testing.T, kv *kvstore.MemoryStore, clock Clock) SessionFactory {
	t.Helper()
	return func(id string) (*Session, error) {
		doc, err := page.ParseString(testPage)
		if err != nil {
			return nil, err
		}
		return NewSession(id, doc, Options{
			Config:      DefaultConfig(),
			Persistence: NewGateway(kv, DefaultStorageKey),
			Clock:       clock,
		}), nil
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(10, time.Hour, testFactory(t, kvstore.NewMemoryStore(), newFakeClock()))
	sess, err := store.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected session ID to be set")
	}
	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("expected to get the created session back")
	}
	if _, ok := store.Get("missing"); ok {
		t.Fatal("expected unknown ID to miss")
	}
}

func TestStoreCreatePropagatesFactoryError(t *testing.T) {
	store := NewStore(10, time.Hour, func(string) (*Session, error) {
		return nil, errors.New("no page")
	})
	if _, err := store.Create(); err == nil {
		t.Fatal("expected factory error")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(2, time.Hour, testFactory(t, kvstore.NewMemoryStore(), clock))

	a, _ := store.Create()
	b, _ := store.Create()
	a.Enter(testCode)
	a.LastAccess = time.Now().Add(-time.Minute)
	b.LastAccess = time.Now()

	c, err := store.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	if _, ok := store.Get(a.ID); ok {
		t.Fatal("expected oldest session evicted")
	}
	if _, ok := store.Get(c.ID); !ok {
		t.Fatal("expected new session kept")
	}
	if a.Mode() != Locked || a.ActiveAffordances() != 0 {
		t.Fatal("evicted session must be closed")
	}
}

func TestStoreCleanupRemovesIdleSessions(t *testing.T) {
	store := NewStore(10, time.Minute, testFactory(t, kvstore.NewMemoryStore(), newFakeClock()))
	idle, _ := store.Create()
	fresh, _ := store.Create()
	idle.LastAccess = time.Now().Add(-2 * time.Minute)

	store.Cleanup()

	if _, ok := store.Get(idle.ID); ok {
		t.Fatal("expected idle session removed")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Fatal("expected fresh session kept")
	}
}

func TestStoreCloseAll(t *testing.T) {
	store := NewStore(10, time.Hour, testFactory(t, kvstore.NewMemoryStore(), newFakeClock()))
	s, _ := store.Create()
	s.Enter(testCode)
	store.CloseAll()
	if store.Len() != 0 || s.Mode() != Locked {
		t.Fatal("expected every session closed")
	}
}

func TestStartCleanupStops(t *testing.T) {
	store := NewStore(10, time.Nanosecond, testFactory(t, kvstore.NewMemoryStore(), newFakeClock()))
	store.Create()
	stop := store.StartCleanup(time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop()
	if store.Len() != 0 {
		t.Fatal("expected background cleanup to remove the expired session")
	}
}
