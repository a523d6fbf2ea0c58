// Package errors provides centralized error definitions and error handling utilities
// for the rosai wizard. It defines sentinel errors, domain error types with
// context wrapping, and classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures from specific subsystems:
//   - PersistenceError: durable storage reads/writes (quota, disabled, corrupt payload)
//   - NavigationError: a rejected step transition
//   - LookupError: a failed collaborator lookup (postal code, medical directory)
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Propagation
//
// The wizard core (validation and navigation) never returns these to its
// callers; it logs them and reports failure as a boolean. Collaborators and
// the CLI return them so the caller can pick a user-visible message.
//
// # Usage
//
//	err := errors.NewPersistenceError("write", "formData", cause)
//	if errors.Is(err, errors.ErrStorageUnavailable) { ... }
//
//	var lookupErr *errors.LookupError
//	if errors.As(err, &lookupErr) && lookupErr.Kind == errors.LookupNoMatch { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Persistence-related sentinel errors
var (
	// ErrNotFound indicates that a storage key or record does not exist.
	ErrNotFound = New("not found")
	// ErrStorageUnavailable indicates that durable storage is disabled or unreachable.
	ErrStorageUnavailable = New("storage unavailable")
	// ErrQuotaExceeded indicates that durable storage refused a write for lack of space.
	ErrQuotaExceeded = New("storage quota exceeded")
	// ErrCorruptSnapshot indicates that a persisted payload could not be decoded.
	ErrCorruptSnapshot = New("persisted data corrupted")
)

// Navigation-related sentinel errors
var (
	// ErrInvalidStep indicates a step id outside the valid step set.
	ErrInvalidStep = New("invalid step")
	// ErrNavigationRejected indicates a transition that was refused.
	ErrNavigationRejected = New("navigation rejected")
	// ErrDevModeDisabled indicates a developer shortcut invoked without dev mode.
	ErrDevModeDisabled = New("dev mode disabled")
)

// Lookup-related sentinel errors
var (
	// ErrLookupFailed indicates a collaborator lookup failure of any kind.
	ErrLookupFailed = New("lookup failed")
	// ErrMalformedInput indicates lookup input that cannot be sent as-is.
	ErrMalformedInput = New("malformed input")
	// ErrNoMatch indicates the lookup completed but found nothing.
	ErrNoMatch = New("no match")
	// ErrNetwork indicates the lookup could not reach the remote service.
	ErrNetwork = New("network error")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// WizardError is the base interface for all rosai errors.
// It extends the standard error interface with classification methods.
type WizardError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// formatWithContext renders "prefix [k=v, ...]: message: cause".
func formatWithContext(prefix string, parts []string, message string, cause error) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// PersistenceError represents a failed durable-storage operation.
// Persistence failures are recoverable: the in-memory state stays
// authoritative for the current session.
//
// Example:
//
//	err := errors.NewPersistenceError("write", "formData", errors.ErrQuotaExceeded)
//	fmt.Println(err) // "persistence error [op=write, key=formData]: storage operation failed: storage quota exceeded"
type PersistenceError struct {
	baseError
	Op  string
	Key string
}

// NewPersistenceError creates a new PersistenceError.
func NewPersistenceError(op, key string, cause error) *PersistenceError {
	return &PersistenceError{
		baseError: baseError{
			message:    "storage operation failed",
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: false,
		},
		Op:  op,
		Key: key,
	}
}

// WithSeverity sets the error severity.
func (e *PersistenceError) WithSeverity(s Severity) *PersistenceError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *PersistenceError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}
	return formatWithContext("persistence error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *PersistenceError) Is(target error) bool {
	if _, ok := target.(*PersistenceError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// NavigationError represents a step transition that was refused.
//
// Example:
//
//	err := errors.NewNavigationError(10, 11, errors.ErrInvalidStep)
type NavigationError struct {
	baseError
	From int
	To   int
}

// NewNavigationError creates a new NavigationError.
func NewNavigationError(from, to int, cause error) *NavigationError {
	return &NavigationError{
		baseError: baseError{
			message:    "transition rejected",
			cause:      cause,
			severity:   SeverityInfo,
			retryable:  false,
			userFacing: false,
		},
		From: from,
		To:   to,
	}
}

// Error returns the formatted error message.
func (e *NavigationError) Error() string {
	parts := []string{fmt.Sprintf("from=%d", e.From), fmt.Sprintf("to=%d", e.To)}
	return formatWithContext("navigation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *NavigationError) Is(target error) bool {
	if _, ok := target.(*NavigationError); ok {
		return true
	}
	if target == ErrNavigationRejected {
		return true
	}
	return e.baseError.Is(target)
}

// LookupKind classifies a failed collaborator lookup. The three kinds map to
// distinct user-visible outcomes.
type LookupKind int

const (
	// LookupMalformed means the query was rejected before it was sent.
	LookupMalformed LookupKind = iota
	// LookupNoMatch means the service answered but found nothing.
	LookupNoMatch
	// LookupNetwork means the service could not be reached or answered garbage.
	LookupNetwork
)

// String returns the string representation of the lookup kind.
func (k LookupKind) String() string {
	switch k {
	case LookupMalformed:
		return "malformed"
	case LookupNoMatch:
		return "no_match"
	case LookupNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// sentinel returns the sentinel error matching the kind.
func (k LookupKind) sentinel() error {
	switch k {
	case LookupMalformed:
		return ErrMalformedInput
	case LookupNoMatch:
		return ErrNoMatch
	default:
		return ErrNetwork
	}
}

// LookupError represents a failed postal-code or directory lookup.
//
// Example:
//
//	err := errors.NewLookupError("postal", errors.LookupNoMatch, nil).WithQuery("1000001")
type LookupError struct {
	baseError
	Service string
	Kind    LookupKind
	Query   string
}

// NewLookupError creates a new LookupError.
func NewLookupError(service string, kind LookupKind, cause error) *LookupError {
	return &LookupError{
		baseError: baseError{
			message:    kind.sentinel().Error(),
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  kind == LookupNetwork,
			userFacing: true,
		},
		Service: service,
		Kind:    kind,
	}
}

// WithQuery adds the query to the error context.
func (e *LookupError) WithQuery(q string) *LookupError {
	e.Query = q
	return e
}

// Error returns the formatted error message.
func (e *LookupError) Error() string {
	var parts []string
	if e.Service != "" {
		parts = append(parts, fmt.Sprintf("service=%s", e.Service))
	}
	if e.Query != "" {
		parts = append(parts, fmt.Sprintf("query=%s", e.Query))
	}
	return formatWithContext("lookup error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *LookupError) Is(target error) bool {
	if _, ok := target.(*LookupError); ok {
		return true
	}
	if target == ErrLookupFailed || target == e.Kind.sentinel() {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("institution", "1300016")
//	fmt.Println(err) // "institution '1300016' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return e.message
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return target == ErrNotFound
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("must be a 7-digit postal code").WithField("postalCode")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds the field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error is transient and the operation may
// succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var wizardErr WizardError
	if As(err, &wizardErr) {
		return wizardErr.IsRetryable()
	}

	return Is(err, ErrNetwork)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var wizardErr WizardError
	if As(err, &wizardErr) {
		return wizardErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement WizardError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var wizardErr WizardError
	if As(err, &wizardErr) {
		return wizardErr.Severity()
	}

	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
