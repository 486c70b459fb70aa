// ABOUTME: Persistence gateway writing the latest snapshot to the local key-value store under one key.
// ABOUTME: Last write wins; unreadable or malformed stored data is logged and treated as absent.
package editor

import (
	"fmt"
	"log"
)

// DefaultStorageKey is the application key the snapshot lives under.
const DefaultStorageKey = "starpr_site_v1"

// KV is the subset of a key-value store the gateway needs.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Gateway is the only writer of its key.
type Gateway struct {
	kv  KV
	key string
}

// NewGateway returns a gateway over kv. An empty key uses DefaultStorageKey.
func NewGateway(kv KV, key string) *Gateway {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Gateway{kv: kv, key: key}
}

// Key returns the storage key.
func (g *Gateway) Key() string {
	return g.key
}

// Save overwrites the stored snapshot.
func (g *Gateway) Save(s Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if err := g.kv.Set(g.key, string(data)); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ok=false when there is none or it cannot be read.
func (g *Gateway) Load() (Snapshot, bool) {
	raw, ok, err := g.kv.Get(g.key)
	if err != nil {
		log.Printf("persist: load failed key=%s error=%v", g.key, err)
		return Snapshot{}, false
	}
	if !ok {
		return Snapshot{}, false
	}
	snap, err := DecodeSnapshot([]byte(raw))
	if err != nil {
		log.Printf("persist: ignoring stored snapshot key=%s error=%v", g.key, err)
		return Snapshot{}, false
	}
	return snap, true
}
