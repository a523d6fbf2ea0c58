package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rosai-assist/rosai/internal/config"
	"github.com/rosai-assist/rosai/internal/tui"
	"github.com/rosai-assist/rosai/internal/wizard"
)

// Below this the step tabs and the field column wrap badly.
const (
	minTermWidth  = 80
	minTermHeight = 24
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the claim wizard",
	Long: `Open the claim wizard in the terminal.

A worker resumes at the step saved by the previous session. An employer
opens at the employer section and a medical institution at the medical
section of a form that has been circulated to them.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringP("role", "r", "", "acting party: "+strings.Join(config.ValidRoles(), ", "))
	startCmd.Flags().Bool("dev", false, "enable the developer next-step shortcut (ctrl+d)")
	_ = viper.BindPFlag("wizard.role", startCmd.Flags().Lookup("role"))
	_ = viper.BindPFlag("wizard.dev_mode", startCmd.Flags().Lookup("dev"))
}

func runStart(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the wizard needs an interactive terminal")
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.close()

	role, ok := wizard.ParseRole(ws.cfg.Wizard.Role)
	if !ok {
		return fmt.Errorf("unknown role %q (valid: %s)", ws.cfg.Wizard.Role, strings.Join(config.ValidRoles(), ", "))
	}

	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if width < minTermWidth || height < minTermHeight {
			fmt.Fprintf(cmd.ErrOrStderr(), "Terminal is %dx%d; at least %dx%d is recommended.\n",
				width, height, minTermWidth, minTermHeight)
		}
	}

	ws.state.StartAutosave(ws.cfg.Autosave.Interval())

	app, err := tui.New(tui.Options{
		State:     ws.state,
		Postal:    ws.postalClient(),
		Directory: ws.directory(),
		Logger:    ws.logger,
		Role:      role,
		DevMode:   ws.cfg.Wizard.DevMode,
	})
	if err != nil {
		return fmt.Errorf("failed to start wizard: %w", err)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
