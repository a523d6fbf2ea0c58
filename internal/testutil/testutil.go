// Package testutil provides test doubles shared by the wizard packages:
// an in-memory field accessor that records error markers, a store that can
// be told to fail, and a fixed clock.
package testutil

import (
	"sync"
	"time"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/storage"
)

// Fields is an in-memory form. A field exists only if it was given a value
// (possibly empty) at construction or through SetValue.
type Fields struct {
	mu      sync.Mutex
	values  map[string]string
	invalid map[string]bool
	errs    map[string]string
}

// NewFields returns a form pre-populated with values.
func NewFields(values map[string]string) *Fields {
	f := &Fields{
		values:  make(map[string]string, len(values)),
		invalid: make(map[string]bool),
		errs:    make(map[string]string),
	}
	for k, v := range values {
		f.values[k] = v
	}
	return f
}

// Value returns the field's text and whether the field exists.
func (f *Fields) Value(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[id]
	return v, ok
}

// SetValue creates or overwrites a field.
func (f *Fields) SetValue(id, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[id] = value
}

// SetInvalid records the invalid marker for a field.
func (f *Fields) SetInvalid(id string, invalid bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if invalid {
		f.invalid[id] = true
	} else {
		delete(f.invalid, id)
	}
}

// ShowError records an error message for id.
func (f *Fields) ShowError(id, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[id] = message
}

// ClearError removes the error message for id.
func (f *Fields) ClearError(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errs, id)
}

// Invalid reports whether id carries the invalid marker.
func (f *Fields) Invalid(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalid[id]
}

// InvalidIDs returns every id carrying the invalid marker.
func (f *Fields) InvalidIDs() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.invalid))
	for k := range f.invalid {
		out[k] = true
	}
	return out
}

// Error returns the message shown for id, if any.
func (f *Fields) Error(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.errs[id]
	return msg, ok
}

// Errors returns a copy of every shown error.
func (f *Fields) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// FlakyStore wraps a MemoryStore and fails reads or writes on demand.
type FlakyStore struct {
	*storage.MemoryStore

	mu       sync.Mutex
	failSet  bool
	failGet  bool
	setCalls int
}

// NewFlakyStore returns a working store; use FailWrites/FailReads to break it.
func NewFlakyStore() *FlakyStore {
	return &FlakyStore{MemoryStore: storage.NewMemoryStore()}
}

// FailWrites makes Set and Remove return a quota error.
func (s *FlakyStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

// FailReads makes Get return a storage-unavailable error.
func (s *FlakyStore) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = fail
}

// SetCalls returns how many times Set was called.
func (s *FlakyStore) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

func (s *FlakyStore) Get(key string) (string, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return "", errors.ErrStorageUnavailable
	}
	return s.MemoryStore.Get(key)
}

func (s *FlakyStore) Set(key, value string) error {
	s.mu.Lock()
	s.setCalls++
	fail := s.failSet
	s.mu.Unlock()
	if fail {
		return errors.ErrQuotaExceeded
	}
	return s.MemoryStore.Set(key, value)
}

func (s *FlakyStore) Remove(key string) error {
	s.mu.Lock()
	fail := s.failSet
	s.mu.Unlock()
	if fail {
		return errors.ErrStorageUnavailable
	}
	return s.MemoryStore.Remove(key)
}

// Clock returns a function that always reports t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Date builds a local midnight time.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
