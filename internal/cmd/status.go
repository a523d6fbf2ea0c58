package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rosai-assist/rosai/internal/circulation"
	"github.com/rosai-assist/rosai/internal/formstate"
	"github.com/rosai-assist/rosai/internal/wizard"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved claim's progress",
	Long: `Show the step the saved claim is on, how many fields are filled in,
and, once the form has been circulated, which parties have completed
their sections.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.close()

	printStatus(cmd.OutOrStdout(), ws.state)
	return nil
}

func printStatus(out io.Writer, state *formstate.PersistedFormState) {
	step := state.CurrentStep()
	label := "?"
	if def, ok := wizard.Definition(step); ok {
		label = def.Label
	}

	fmt.Fprintf(out, "Step:     %d/%d %s (%d%%)\n",
		wizard.ProgressStep(step), wizard.TotalSteps, label, int(wizard.ProgressPercent(step)*100))
	fmt.Fprintf(out, "Fields:   %d filled\n", len(state.AllData()))

	requestID := state.FieldString(circulation.FieldRequestID)
	completedBy := state.CompletedBy()
	if requestID == "" && completedBy == "" {
		fmt.Fprintln(out, "Circulation: not sent")
		return
	}

	summary := circulation.Status(completedBy)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Circulation: %s\n", summary.Headline)
	if requestID != "" {
		fmt.Fprintf(out, "  Request:  %s\n", requestID)
		fmt.Fprintf(out, "  Employer: %s\n", state.FieldString("employerEmail"))
		if sent := state.FieldString(circulation.FieldSentAt); sent != "" {
			fmt.Fprintf(out, "  Sent:     %s\n", sent)
		}
	}
	for _, p := range summary.Parties {
		fmt.Fprintf(out, "  %-8s %s\n", p.Party.Label(), p.State.Label())
	}
	for _, n := range summary.Notices {
		fmt.Fprintf(out, "  - %s\n", n)
	}
}
