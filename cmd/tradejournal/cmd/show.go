package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/app"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show the details of a trade",
	Long: `Print one trade as an Org-mode block, including notes and AI analysis.

The id may be shortened to any unique prefix, such as the eight characters
shown by list.

Example:
  tradejournal show 01HS3K9Q`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := findTrade(s, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

// findTrade resolves a full id or a unique id prefix.
func findTrade(s *app.Session, id string) (journal.Record, error) {
	rec, err := s.Find(id)
	if err == nil || !errors.Is(err, app.ErrNotFound) {
		return rec, err
	}

	var matches []journal.Record
	for _, r := range s.Records() {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return journal.Record{}, err
	case 1:
		return matches[0], nil
	}
	return journal.Record{}, fmt.Errorf("trade id %q is ambiguous (%d matches)", id, len(matches))
}
