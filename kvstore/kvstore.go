// ABOUTME: Persistent local key-value store contract shared by the SQLite, file, and memory backends.
// ABOUTME: Plain get/set on string keys and values; no transactions, no expiry.
package kvstore

import (
	"fmt"
	"path/filepath"
)

// Store is the platform key-value capability the editor persists through.
// Get reports ok=false for a missing key; that is not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open creates the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSqlite(filepath.Join(dir, "starpr.db"))
	case BackendFile:
		return NewFileStore(filepath.Join(dir, "kv"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want sqlite, file, or memory)", backend)
	}
}
