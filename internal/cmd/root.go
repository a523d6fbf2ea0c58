package cmd

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rosai-assist/rosai/internal/config"
	"github.com/rosai-assist/rosai/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "rosai",
	Short: "Workers' compensation claim wizard",
	Long: `Rosai walks a worker through a workers' compensation claim form in the
terminal, then circulates it to the employer and the medical institution
so each party can fill in its own section.`,
	SilenceUsage: true,
}

// liveLogger is the logger of the running command. A config file change
// applies the new log level to it.
var liveLogger atomic.Pointer[logging.Logger]

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/rosai/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// A .env in the working directory may carry ROSAI_* overrides
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/rosai")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ROSAI")
	// e.g., ROSAI_STORAGE_DRIVER for storage.driver
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	if err := viper.ReadInConfig(); err != nil {
		return
	}

	viper.OnConfigChange(onConfigChange)
	viper.WatchConfig()
}

func onConfigChange(e fsnotify.Event) {
	l := liveLogger.Load()
	if l == nil {
		return
	}
	cfg, err := config.Load()
	if err != nil {
		l.Warn("ignoring invalid config change", "file", e.Name, "error", err)
		return
	}
	if logging.ParseLevel(cfg.Logging.Level) != l.Level() {
		l.SetLevel(cfg.Logging.Level)
		l.Info("log level changed", "file", e.Name, "level", l.Level())
	}
}
