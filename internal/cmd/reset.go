package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved claim",
	Long: `Discard the saved claim: every field, the current step and the
completion marker. The next start begins at step 1.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("force", "f", false, "discard without printing the current status first")
}

func runReset(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.close()

	out := cmd.OutOrStdout()
	if !force {
		printStatus(out, ws.state)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'rosai reset --force' to discard this claim.")
		return nil
	}

	ws.state.ClearData()
	ws.state.ClearCompletedBy()
	ws.logger.Info("claim discarded")

	fmt.Fprintln(out, "Saved claim discarded.")
	return nil
}
