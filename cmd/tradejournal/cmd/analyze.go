package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/analysis"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask the AI reviewer about a trade without recording it",
	Long: `Send the trade details and optional chart screenshot to the AI reviewer
and print its critique. Nothing is saved.

The API key is read from the environment variable named in the config
(GOOGLE_API_KEY by default), then API_KEY, then the configured key file.

Example:
  tradejournal analyze --model fvg --direction long --status loss --screenshot chart.png`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var analyzeFlags tradeFlags

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeFlags.register(analyzeCmd.Flags())
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	f, err := analyzeFlags.form()
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := s.Analyze(commandContext(cmd), f)
	if err != nil {
		return err
	}
	if text == analysis.FallbackText {
		warnf(cmd, "the AI reviewer could not be reached")
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
