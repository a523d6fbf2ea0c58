// Package formstate holds the wizard's position and field values and is the
// only code that reads or writes the wizard's durable storage keys.
//
// Every storage failure is logged and swallowed: the in-memory state stays
// authoritative for the running session.
package formstate

import (
	"fmt"
	"maps"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/logging"
)

// Storage keys owned by PersistedFormState.
const (
	KeyFormData    = "formData"
	KeyCurrentStep = "currentStep"
	KeyCompletedBy = "completedBy"
)

const (
	// FirstStep is the step a fresh wizard starts on.
	FirstStep = 1
	// TerminalStep is the confirm/submit step id. Step 9 has no screen.
	TerminalStep = 10

	// DefaultAutosaveInterval matches the wizard's historical 30 second period.
	DefaultAutosaveInterval = 30 * time.Second
)

// DurableStore is the key-value port the state persists through.
type DurableStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Snapshot is a point-in-time copy of the wizard state.
type Snapshot struct {
	CurrentStep int
	Fields      map[string]any
	CompletedBy string
}

// DefaultValidStep reports whether step is one of 1..8 or the terminal step.
func DefaultValidStep(step int) bool {
	return (step >= FirstStep && step <= 8) || step == TerminalStep
}

// Option configures a PersistedFormState.
type Option func(*PersistedFormState)

// WithValidStep replaces the step-id membership test.
func WithValidStep(fn func(int) bool) Option {
	return func(s *PersistedFormState) { s.validStep = fn }
}

// PersistedFormState is safe for concurrent use; the autosave goroutine and
// the UI may touch it at the same time.
type PersistedFormState struct {
	store     DurableStore
	logger    *logging.Logger
	validStep func(int) bool

	mu          sync.Mutex
	currentStep int
	fields      map[string]any
	completedBy string

	autosaveMu sync.Mutex
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// New creates the state and restores any snapshot found in store.
func New(store DurableStore, logger *logging.Logger, opts ...Option) *PersistedFormState {
	if logger == nil {
		logger = logging.NopLogger()
	}
	s := &PersistedFormState{
		store:       store,
		logger:      logger.WithComponent("formstate"),
		validStep:   DefaultValidStep,
		currentStep: FirstStep,
		fields:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.LoadFromStorage()
	s.loadCompletedBy()
	return s
}

// CurrentStep returns the current step id.
func (s *PersistedFormState) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep
}

// SetCurrentStep moves to step and persists immediately. Ids outside the
// valid set leave the state untouched.
func (s *PersistedFormState) SetCurrentStep(step int) {
	if !s.validStep(step) {
		s.logger.Warn("ignoring invalid step", "step", step)
		return
	}

	s.mu.Lock()
	s.currentStep = step
	s.mu.Unlock()

	s.SaveToStorage()
}

// SaveField records a text value. Nothing is persisted until the next save.
func (s *PersistedFormState) SaveField(name, value string) {
	s.set(name, value)
}

// SaveFlag records a checkbox value.
func (s *PersistedFormState) SaveFlag(name string, value bool) {
	s.set(name, value)
}

func (s *PersistedFormState) set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[name] = value
}

// Field returns the stored value for name, which is a string or a bool.
func (s *PersistedFormState) Field(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.fields[name]
	return v, ok
}

// FieldString returns the value for name as text; flags render as "true" or
// "false" and missing fields as "".
func (s *PersistedFormState) FieldString(name string) string {
	v, ok := s.Field(name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// AllData returns a copy of the field mapping.
func (s *PersistedFormState) AllData() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.fields)
}

// Snapshot returns a copy of the whole state.
func (s *PersistedFormState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		CurrentStep: s.currentStep,
		Fields:      maps.Clone(s.fields),
		CompletedBy: s.completedBy,
	}
}

// LoadFromStorage restores the field mapping and step from the store. When
// either key is missing or cannot be decoded it returns (nil, false) and
// leaves the in-memory state as it was.
func (s *PersistedFormState) LoadFromStorage() (map[string]any, bool) {
	rawData, err := s.store.Get(KeyFormData)
	if err != nil {
		s.logLoadFailure(KeyFormData, err)
		return nil, false
	}
	rawStep, err := s.store.Get(KeyCurrentStep)
	if err != nil {
		s.logLoadFailure(KeyCurrentStep, err)
		return nil, false
	}

	fields, err := decodeFields(rawData)
	if err != nil {
		s.logPersistence("failed to load form data", persistenceError("read", KeyFormData, err))
		return nil, false
	}
	step, err := strconv.Atoi(rawStep)
	if err != nil || !s.validStep(step) {
		s.logPersistence("failed to load current step",
			persistenceError("read", KeyCurrentStep, errors.ErrCorruptSnapshot), "raw", rawStep)
		return nil, false
	}

	s.mu.Lock()
	s.fields = fields
	s.currentStep = step
	s.mu.Unlock()

	s.logger.Debug("restored form state", "step", step, "fields", len(fields))
	return maps.Clone(fields), true
}

func (s *PersistedFormState) logLoadFailure(key string, err error) {
	if errors.Is(err, errors.ErrNotFound) {
		s.logPersistence("no saved state", persistenceError("read", key, err))
		return
	}
	s.logPersistence("failed to load form state", persistenceError("read", key, err))
}

// persistenceError classifies a store failure: a missing key is routine,
// corrupt payloads and a full store are errors, anything else a warning.
func persistenceError(op, key string, cause error) *errors.PersistenceError {
	err := errors.NewPersistenceError(op, key, cause)
	switch {
	case errors.Is(cause, errors.ErrNotFound):
		err.WithSeverity(errors.SeverityDebug)
	case errors.Is(cause, errors.ErrCorruptSnapshot), errors.Is(cause, errors.ErrQuotaExceeded):
		err.WithSeverity(errors.SeverityError)
	}
	return err
}

// logPersistence logs err at the level its severity calls for.
func (s *PersistedFormState) logPersistence(msg string, err *errors.PersistenceError, args ...any) {
	args = append([]any{"error", err.Error()}, args...)
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug:
		s.logger.Debug(msg, args...)
	case errors.SeverityInfo:
		s.logger.Info(msg, args...)
	case errors.SeverityWarning:
		s.logger.Warn(msg, args...)
	default:
		s.logger.Error(msg, args...)
	}
}

// decodeFields parses the formData payload. Only string and bool values
// are kept; anything else is dropped.
func decodeFields(raw string) (map[string]any, error) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCorruptSnapshot, err)
	}
	if decoded == nil {
		return nil, errors.ErrCorruptSnapshot
	}

	fields := make(map[string]any, len(decoded))
	for k, v := range decoded {
		switch v.(type) {
		case string, bool:
			fields[k] = v
		}
	}
	return fields, nil
}

// SaveToStorage writes the field mapping and the step to their two keys.
// Saving twice without an intervening change writes identical content.
func (s *PersistedFormState) SaveToStorage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.fields)
	if err != nil {
		s.logPersistence("failed to encode form data",
			errors.NewPersistenceError("encode", KeyFormData, err).WithSeverity(errors.SeverityError))
		return
	}
	if err := s.store.Set(KeyFormData, string(data)); err != nil {
		s.logPersistence("failed to save form data", persistenceError("write", KeyFormData, err))
		return
	}
	if err := s.store.Set(KeyCurrentStep, strconv.Itoa(s.currentStep)); err != nil {
		s.logPersistence("failed to save current step", persistenceError("write", KeyCurrentStep, err))
	}
}

// ClearData resets to step 1 with no fields and removes both snapshot keys.
func (s *PersistedFormState) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields = make(map[string]any)
	s.currentStep = FirstStep

	for _, key := range []string{KeyFormData, KeyCurrentStep} {
		if err := s.store.Remove(key); err != nil {
			s.logPersistence("failed to clear form state", persistenceError("remove", key, err))
		}
	}
}
