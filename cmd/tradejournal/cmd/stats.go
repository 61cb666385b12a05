package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance statistics",
	Long: `Compute win rate, net R, average R:R, outcome counts and per-model
win rates over the selected trades.

Net R counts a win as its R:R, a loss as -1R and a break even as 0.

Examples:
  tradejournal stats --this-month
  tradejournal stats --from 2024-01-01 --format org >> journal.org`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsRange  rangeFlags
	statsFormat string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsRange.register(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "output format (text, org, json)")
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := statsRange.apply(s); err != nil {
		return err
	}
	d := s.Dashboard()
	out := cmd.OutOrStdout()

	switch statsFormat {
	case "text":
		writeStats(out, d)
	case "org":
		report, err := journal.FormatReportOrg(journal.Report{
			Range:     s.Range(),
			Generated: time.Now(),
			Dashboard: d,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(out, report)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("unknown format %q", statsFormat)
	}
	return nil
}

func writeStats(w io.Writer, d journal.Dashboard) {
	st := d.Stats
	fmt.Fprintln(w, "PERFORMANCE")
	fmt.Fprintf(w, "  Win Rate:      %.1f%%\n", st.WinRate)
	fmt.Fprintf(w, "  Net R:R:       %+.2fR\n", st.NetRR)
	fmt.Fprintf(w, "  Total Trades:  %d\n", st.TotalTrades)
	fmt.Fprintf(w, "  Avg R:R:       %.2f\n", st.AvgRR)

	fmt.Fprintln(w, "\nOUTCOMES")
	for _, status := range journal.Statuses() {
		fmt.Fprintf(w, "  %-11s %d\n", status.Label()+":", d.Outcomes[status])
	}

	if len(d.Models) == 0 {
		return
	}
	fmt.Fprintln(w, "\nMODELS")
	for _, m := range d.Models {
		fmt.Fprintf(w, "  %-20s %3d trades  %5.1f%% win\n", m.Model, m.Trades, m.WinRate)
	}
}
