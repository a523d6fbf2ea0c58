package cmd

import (
	"fmt"

	"github.com/rosai-assist/rosai/internal/config"
	"github.com/rosai-assist/rosai/internal/formstate"
	"github.com/rosai-assist/rosai/internal/logging"
	"github.com/rosai-assist/rosai/internal/medical"
	"github.com/rosai-assist/rosai/internal/postal"
	"github.com/rosai-assist/rosai/internal/storage"
	"github.com/rosai-assist/rosai/internal/wizard"
)

// workspace is the persisted claim and the services around it, opened
// from the loaded configuration.
type workspace struct {
	cfg    *config.Config
	logger *logging.Logger
	store  storage.Store
	state  *formstate.PersistedFormState
}

func openWorkspace() (*workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.ResolveDir())
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	logger.Info("workspace opened",
		"driver", cfg.Storage.Driver,
		"dir", cfg.Storage.ResolveDir())

	return &workspace{
		cfg:    cfg,
		logger: logger,
		store:  store,
		state:  formstate.New(store, logger, formstate.WithValidStep(wizard.IsValidStep)),
	}, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	rot := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	logger, err := logging.NewLogger(cfg.Storage.ResolveDir(), cfg.Logging.Level, rot)
	if err != nil {
		return nil, err
	}
	liveLogger.Store(logger)
	return logger, nil
}

func (w *workspace) postalClient() *postal.Client {
	return postal.NewClient(w.cfg.Postal.Endpoint, w.cfg.Postal.Timeout(), w.logger)
}

func (w *workspace) directory() *medical.Directory {
	return newDirectory(w.cfg, w.logger)
}

func newDirectory(cfg *config.Config, logger *logging.Logger) *medical.Directory {
	source := medical.EmbeddedSource()
	if cfg.Medical.CatalogPath != "" {
		source = medical.FileSource(cfg.Medical.CatalogPath)
	}
	return medical.NewDirectory(source, logger)
}

func (w *workspace) close() {
	w.state.StopAutosave()
	if err := storage.Close(w.store); err != nil {
		w.logger.Warn("failed to close storage", "error", err)
	}
	liveLogger.CompareAndSwap(w.logger, nil)
	_ = w.logger.Close()
}
