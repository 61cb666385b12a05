package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the journal with a snapshot file",
	Long: `Load a JSON snapshot, such as one exported by the browser journal or by
export, and make it the journal. Use - to read from stdin.

The current journal is replaced, not merged, so a non-empty journal
requires --force.

Example:
  tradejournal import trade_journal_data.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the journal snapshot as JSON",
	Long: `Write every trade as a JSON array in the snapshot format read by
import. Writes to stdout when no file is given.

Example:
  tradejournal export backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importForce bool

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	importCmd.Flags().BoolVar(&importForce, "force", false, "replace a non-empty journal")
}

func runImport(cmd *cobra.Command, args []string) error {
	blob, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	recs, err := journal.DecodeSnapshot(blob)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if n := s.Len(); n > 0 && !importForce {
		return fmt.Errorf("journal already holds %d trades, use --force to replace them", n)
	}
	if err := s.Import(recs); err != nil {
		return fmt.Errorf("save journal: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades\n", len(recs))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	blob, err := s.Snapshot()
	if err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "-" {
		_, err = cmd.OutOrStdout().Write(append(blob, '\n'))
		return err
	}
	if err := os.WriteFile(args[0], blob, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d trades to %s\n", s.Len(), args[0])
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return blob, nil
}
