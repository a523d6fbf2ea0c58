// Package tui is the terminal presentation of the claim wizard.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   *Model
}

// New creates a new TUI application
func New(opts Options) (*App, error) {
	model, err := NewModel(opts)
	if err != nil {
		return nil, err
	}
	return &App{model: model}, nil
}

// Model returns the wizard model.
func (a *App) Model() *Model {
	return a.model
}

// Run starts the TUI application and blocks until the user quits. The form
// state is saved on exit.
func (a *App) Run() error {
	defer a.model.state.SaveToStorage()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Quit through the model so state is saved when the process is terminated
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}
