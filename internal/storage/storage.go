// Package storage provides durable key-value stores for the in-progress
// claim. Values are opaque strings; the form state layer decides what they
// encode.
//
// Three backends are available: FileStore (one file per key),
// SQLiteStore (a single table in a local database) and MemoryStore (for
// tests and for running without persistence).
package storage

import (
	"fmt"
	"strings"

	"github.com/rosai-assist/rosai/internal/errors"
)

// ErrNotFound is returned by Get when the key has never been set or has
// been removed.
var ErrNotFound = errors.ErrNotFound

// Store is a synchronous string key-value store. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Closer is implemented by stores holding an open resource.
type Closer interface {
	Close() error
}

// Open builds the store named by driver rooted at dir.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case "file":
		s, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := NewSQLiteStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q: %w", driver, errors.ErrInvalidInput)
	}
}

// Close closes s if it holds an open resource.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

// validateKey rejects keys that would escape a store directory or are empty.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return errors.NewValidationError("invalid storage key").WithField("key").WithValue(key)
	}
	return nil
}
