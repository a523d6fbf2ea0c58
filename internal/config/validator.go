package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "autosave.interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// minAutosaveMs keeps a misconfigured autosave from hammering the store.
const minAutosaveMs = 1000

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateAutosave()...)
	errors = append(errors, c.validatePostal()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateWizard()...)

	return errors
}

func (c *Config) validateStorage() []ValidationError {
	if slices.Contains(ValidStorageDrivers(), c.Storage.Driver) {
		return nil
	}
	return []ValidationError{{
		Field:   "storage.driver",
		Value:   c.Storage.Driver,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStorageDrivers(), ", ")),
	}}
}

func (c *Config) validateAutosave() []ValidationError {
	ms := c.Autosave.IntervalMs
	if ms == 0 || ms >= minAutosaveMs {
		return nil
	}
	return []ValidationError{{
		Field:   "autosave.interval_ms",
		Value:   ms,
		Message: fmt.Sprintf("must be 0 (disabled) or at least %d", minAutosaveMs),
	}}
}

func (c *Config) validatePostal() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.Postal.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "postal.endpoint",
			Value:   c.Postal.Endpoint,
			Message: "must be an absolute http(s) URL",
		})
	}

	if c.Postal.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "postal.timeout_ms",
			Value:   c.Postal.TimeoutMs,
			Message: "must be positive",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	const maxLogSizeMB = 100
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 1 and %d", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateWizard() []ValidationError {
	if slices.Contains(ValidRoles(), c.Wizard.Role) {
		return nil
	}
	return []ValidationError{{
		Field:   "wizard.role",
		Value:   c.Wizard.Role,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidRoles(), ", ")),
	}}
}
