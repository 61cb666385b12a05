package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradejournal/app"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a closed trade",
	Long: `Record a trade in the journal and save it.

Malformed prices become 0 and an unreadable date becomes now; the trade is
still recorded. With --analyze the AI critique is requested first and
stored with the trade.

Example:
  tradejournal add --model "deepzone dc" --direction short --entry 1.0850 \
    --exit 1.0825 --rr 2.5 --status win --screenshot chart.png --analyze`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addFlags   tradeFlags
	addAnalyze bool
)

func init() {
	rootCmd.AddCommand(addCmd)
	addFlags.register(addCmd.Flags())
	addCmd.Flags().BoolVar(&addAnalyze, "analyze", false, "request an AI critique and store it with the trade")
}

func runAdd(cmd *cobra.Command, args []string) error {
	f, err := addFlags.form()
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var res app.SubmitResult
	if addAnalyze {
		fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing...")
		if res, err = s.SubmitWithAnalysis(commandContext(cmd), f); err != nil {
			return err
		}
	} else {
		res = s.Submit(f)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(res.Record))
	if res.SaveErr != nil {
		return fmt.Errorf("trade recorded but not saved: %w", res.SaveErr)
	}
	return nil
}

// commandContext is the command's context, or Background when run without
// one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
