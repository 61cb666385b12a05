package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/tradejournal/app"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, most recent first",
	Long: `List journal trades, optionally limited to a date range.

Date bounds are whole calendar days and inclusive at both ends.

Examples:
  tradejournal list --this-month
  tradejournal list --from 2024-03-01 --to 2024-03-15 --format org
  tradejournal list --last-month --format csv > february.csv`,
	Args: cobra.NoArgs,
	RunE: runList,
}

type rangeFlags struct {
	from      string
	to        string
	thisMonth bool
	lastMonth bool
}

var (
	listRange  rangeFlags
	listFormat string
)

func (rf *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.from, "from", "", "first day (YYYY-MM-DD), open when empty")
	cmd.Flags().StringVar(&rf.to, "to", "", "last day (YYYY-MM-DD), open when empty")
	cmd.Flags().BoolVar(&rf.thisMonth, "this-month", false, "limit to the current month")
	cmd.Flags().BoolVar(&rf.lastMonth, "last-month", false, "limit to the previous month")
	cmd.MarkFlagsMutuallyExclusive("this-month", "last-month", "from")
	cmd.MarkFlagsMutuallyExclusive("this-month", "last-month", "to")
}

// apply sets the session filter from the flags.
func (rf *rangeFlags) apply(s *app.Session) error {
	switch {
	case rf.thisMonth:
		s.ThisMonth()
	case rf.lastMonth:
		s.LastMonth()
	default:
		start, err := journal.ParseDate(rf.from, s.Location())
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		end, err := journal.ParseDate(rf.to, s.Location())
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}
		s.SetRange(journal.DateRange{Start: start, End: end})
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listRange.register(listCmd)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, org, csv)")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := listRange.apply(s); err != nil {
		return err
	}
	recs := s.History()
	out := cmd.OutOrStdout()

	switch listFormat {
	case "table":
		writeTable(out, recs, s.Location())
	case "org":
		fmt.Fprintln(out, journal.FormatTradesOrg(recs))
	case "csv":
		return journal.WriteCSV(out, recs)
	default:
		return fmt.Errorf("unknown format %q", listFormat)
	}
	return nil
}

func writeTable(w io.Writer, recs []journal.Record, loc *time.Location) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No trades in range.")
		return
	}
	fmt.Fprintf(w, "%-8s  %-16s  %-16s  %-5s  %-4s  %6s  %-10s\n",
		"ID", "DATE", "MODEL", "DIR", "TF", "RR", "RESULT")
	for _, r := range recs {
		fmt.Fprintf(w, "%-8s  %-16s  %-16s  %-5s  %-4s  %6.2f  %-10s\n",
			journal.ShortID(r.ID),
			r.Time().In(loc).Format("2006-01-02 15:04"),
			r.Model,
			r.Direction,
			r.Timeframe,
			r.RR,
			r.Status.Label(),
		)
	}
}
