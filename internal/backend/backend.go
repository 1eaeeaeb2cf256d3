// Package backend selects the persistence adapter behind the store's KV
// boundary based on configuration.
package backend

import "nova/internal/store"

// Type is the kind of KV backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result contains the KV instance and an optional cleanup function.
type Result struct {
	KV      store.KV
	Cleanup CleanupFunc
}

// Config holds what's needed to create a backend.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
}
