package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all rosai configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Autosave AutosaveConfig `mapstructure:"autosave" yaml:"autosave"`
	Postal   PostalConfig   `mapstructure:"postal" yaml:"postal"`
	Medical  MedicalConfig  `mapstructure:"medical" yaml:"medical"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Wizard   WizardConfig   `mapstructure:"wizard" yaml:"wizard"`
}

// StorageConfig selects where the in-progress claim is persisted
type StorageConfig struct {
	// Driver is one of "file", "sqlite" or "memory" (default: "file").
	// "memory" keeps nothing across runs.
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Dir is the directory holding the store. Empty means DataDir().
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// AutosaveConfig controls periodic persistence of the form
type AutosaveConfig struct {
	// IntervalMs is the autosave period in milliseconds (default: 30000).
	// Zero disables autosave.
	IntervalMs int `mapstructure:"interval_ms" yaml:"interval_ms"`
}

// PostalConfig controls the postal-code address lookup
type PostalConfig struct {
	// Endpoint is the zipcloud-compatible search URL.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// TimeoutMs bounds a single lookup request (default: 5000).
	TimeoutMs int `mapstructure:"timeout_ms" yaml:"timeout_ms"`
}

// MedicalConfig controls the medical institution directory
type MedicalConfig struct {
	// CatalogPath is a JSON file of institutions. Empty uses the built-in catalog.
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether the debug log is written (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the log size that triggers rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// WizardConfig controls how the wizard starts
type WizardConfig struct {
	// DevMode enables the validation-skipping next-step shortcut.
	DevMode bool `mapstructure:"dev_mode" yaml:"dev_mode"`
	// Role is the acting party: "worker", "employer" or "medical" (default: "worker")
	Role string `mapstructure:"role" yaml:"role"`
}

// DefaultPostalEndpoint is the public zipcloud search API.
const DefaultPostalEndpoint = "https://zipcloud.ibsnet.co.jp/api/search"

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "file",
			Dir:    "",
		},
		Autosave: AutosaveConfig{
			IntervalMs: 30000,
		},
		Postal: PostalConfig{
			Endpoint:  DefaultPostalEndpoint,
			TimeoutMs: 5000,
		},
		Medical: MedicalConfig{
			CatalogPath: "",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
		Wizard: WizardConfig{
			DevMode: false,
			Role:    "worker",
		},
	}
}

// Interval returns the autosave period as a time.Duration (0 means disabled)
func (c *AutosaveConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Timeout returns the lookup timeout as a time.Duration
func (c *PostalConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ResolveDir returns the storage directory, falling back to DataDir()
func (c *StorageConfig) ResolveDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return DataDir()
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.driver", defaults.Storage.Driver)
	viper.SetDefault("storage.dir", defaults.Storage.Dir)

	viper.SetDefault("autosave.interval_ms", defaults.Autosave.IntervalMs)

	viper.SetDefault("postal.endpoint", defaults.Postal.Endpoint)
	viper.SetDefault("postal.timeout_ms", defaults.Postal.TimeoutMs)

	viper.SetDefault("medical.catalog_path", defaults.Medical.CatalogPath)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	viper.SetDefault("wizard.dev_mode", defaults.Wizard.DevMode)
	viper.SetDefault("wizard.role", defaults.Wizard.Role)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rosai")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rosai"
	}
	return filepath.Join(home, ".config", "rosai")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default directory for the persisted claim and the debug log
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "rosai")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rosai"
	}
	return filepath.Join(home, ".local", "share", "rosai")
}

// ValidStorageDrivers returns the list of valid storage drivers
func ValidStorageDrivers() []string {
	return []string{"file", "sqlite", "memory"}
}

// ValidRoles returns the list of valid acting parties
func ValidRoles() []string {
	return []string{"worker", "employer", "medical"}
}
