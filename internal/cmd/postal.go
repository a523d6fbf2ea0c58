package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rosai-assist/rosai/internal/config"
	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/logging"
	"github.com/rosai-assist/rosai/internal/postal"
)

var postalCmd = &cobra.Command{
	Use:   "postal <code> [second-segment]",
	Short: "Look up the address for a postal code",
	Long: `Look up the address for a 7-digit postal code. The code may be given
whole (1000001, 100-0001, full-width digits) or as its 3-digit and
4-digit segments.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPostal,
}

func init() {
	rootCmd.AddCommand(postalCmd)
	postalCmd.Flags().Bool("json", false, "print the address as JSON")
}

func runPostal(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	client := postal.NewClient(cfg.Postal.Endpoint, cfg.Postal.Timeout(), logger)
	return lookupPostal(cmd.Context(), cmd.OutOrStdout(), client, args, asJSON, logger)
}

func lookupPostal(ctx context.Context, out io.Writer, client *postal.Client, args []string, asJSON bool, logger *logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		addr postal.Address
		err  error
	)
	if len(args) == 2 {
		addr, err = client.LookupParts(ctx, args[0], args[1])
	} else {
		addr, err = client.Lookup(ctx, args[0])
	}
	if err != nil {
		logger.Debug("postal command failed", "args", args, "error", err)
		return lookupFailure(err)
	}

	if asJSON {
		data, err := json.MarshalIndent(addr, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode address: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	code := addr.ZipCode
	if len(code) == postal.CodeLength {
		code = code[:3] + "-" + code[3:]
	}
	fmt.Fprintf(out, "〒%s %s\n", code, addr.Full())
	if addr.Kana != "" {
		fmt.Fprintf(out, "  %s\n", addr.Kana)
	}
	return nil
}

// lookupFailure prefixes err with the message shown to users, or a generic
// one when err is not meant for them.
func lookupFailure(err error) error {
	if !errors.IsUserFacing(err) {
		return fmt.Errorf("住所検索に失敗しました: %w", err)
	}
	return fmt.Errorf("%s: %w", postal.UserMessage("郵便番号", err), err)
}
