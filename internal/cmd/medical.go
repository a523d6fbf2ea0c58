package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rosai-assist/rosai/internal/config"
	"github.com/rosai-assist/rosai/internal/medical"
)

var medicalCmd = &cobra.Command{
	Use:   "medical",
	Short: "Browse the medical institution directory",
	Long: `Browse the medical institution directory used to fill in the medical
section. The built-in catalog is used unless medical.catalog_path names
a JSON file.`,
}

var medicalSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search institutions by name, address, region or type",
	Args:  cobra.ExactArgs(1),
	RunE: withDirectory(func(d *medical.Directory, out io.Writer, args []string) error {
		found, err := d.Search(args[0])
		if err != nil {
			return err
		}
		return printInstitutions(out, found)
	}),
}

var medicalShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one institution",
	Args:  cobra.ExactArgs(1),
	RunE: withDirectory(func(d *medical.Directory, out io.Writer, args []string) error {
		inst, err := d.ByID(args[0])
		if err != nil {
			return err
		}
		printInstitution(out, inst)
		return nil
	}),
}

var medicalRegionCmd = &cobra.Command{
	Use:   "region <region>",
	Short: "List institutions in a region",
	Args:  cobra.ExactArgs(1),
	RunE: withDirectory(func(d *medical.Directory, out io.Writer, args []string) error {
		found, err := d.FilterByRegion(args[0])
		if err != nil {
			return err
		}
		return printInstitutions(out, found)
	}),
}

var medicalTypeCmd = &cobra.Command{
	Use:   "type <type>",
	Short: "List institutions of a type (病院, 診療所, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: withDirectory(func(d *medical.Directory, out io.Writer, args []string) error {
		found, err := d.FilterByType(args[0])
		if err != nil {
			return err
		}
		return printInstitutions(out, found)
	}),
}

func init() {
	rootCmd.AddCommand(medicalCmd)
	medicalCmd.AddCommand(medicalSearchCmd)
	medicalCmd.AddCommand(medicalShowCmd)
	medicalCmd.AddCommand(medicalRegionCmd)
	medicalCmd.AddCommand(medicalTypeCmd)
}

type directoryFunc func(d *medical.Directory, out io.Writer, args []string) error

func withDirectory(fn directoryFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		return fn(newDirectory(cfg, logger), cmd.OutOrStdout(), args)
	}
}

func printInstitutions(out io.Writer, list []medical.Institution) error {
	if len(list) == 0 {
		fmt.Fprintln(out, "No institutions found.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tREGION\tTEL")
	for _, inst := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", inst.ID, inst.Name, inst.Type, inst.Region, inst.Phone)
	}
	return tw.Flush()
}

func printInstitution(out io.Writer, inst medical.Institution) {
	first, second := inst.PostalCodeParts()
	fmt.Fprintf(out, "%s (%s)\n", inst.Name, inst.Type)
	fmt.Fprintf(out, "  ID:      %s\n", inst.ID)
	fmt.Fprintf(out, "  Address: 〒%s-%s %s%s\n", first, second, inst.Region, inst.Address)
	fmt.Fprintf(out, "  Tel:     %s\n", inst.Phone)
}
