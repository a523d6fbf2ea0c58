package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() = %q, want count prefix", got)
		}
		if !strings.Contains(got, "2. b: worse (got: 2)") {
			t.Errorf("Error() = %q, want numbered entries", got)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage.driver"},
		{"autosave too fast", func(c *Config) { c.Autosave.IntervalMs = 10 }, "autosave.interval_ms"},
		{"relative endpoint", func(c *Config) { c.Postal.Endpoint = "/api/search" }, "postal.endpoint"},
		{"ftp endpoint", func(c *Config) { c.Postal.Endpoint = "ftp://example.com/search" }, "postal.endpoint"},
		{"zero timeout", func(c *Config) { c.Postal.TimeoutMs = 0 }, "postal.timeout_ms"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"oversized log", func(c *Config) { c.Logging.MaxSizeMB = 1000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
		{"unknown role", func(c *Config) { c.Wizard.Role = "insurer" }, "wizard.role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), ValidationErrors(errs))
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidate_AutosaveDisabled(t *testing.T) {
	cfg := Default()
	cfg.Autosave.IntervalMs = 0
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors for disabled autosave", ValidationErrors(errs))
	}
}
