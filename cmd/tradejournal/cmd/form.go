package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/pflag"
)

// tradeFlags are the entry form fields shared by add and analyze.
type tradeFlags struct {
	date       string
	source     string
	timeframe  string
	model      string
	direction  string
	entry      string
	exit       string
	rr         string
	status     string
	notes      string
	screenshot string
}

func (tf *tradeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&tf.date, "date", "", "trade date/time, e.g. 2024-03-15T10:30 (default now)")
	fs.StringVar(&tf.source, "source", "", "price source timeframe, e.g. 5m")
	fs.StringVar(&tf.timeframe, "timeframe", "", "chart timeframe ("+strings.Join(journal.Timeframes, ", ")+")")
	fs.StringVarP(&tf.model, "model", "m", "", "entry model, e.g. "+strings.Join(journal.DefaultModels, ", "))
	fs.StringVar(&tf.direction, "direction", "long", "long or short")
	fs.StringVar(&tf.entry, "entry", "", "entry price")
	fs.StringVar(&tf.exit, "exit", "", "exit price")
	fs.StringVar(&tf.rr, "rr", "", "risk:reward multiple")
	fs.StringVarP(&tf.status, "status", "s", "win", "outcome (win, loss, be)")
	fs.StringVarP(&tf.notes, "notes", "n", "", "free-form notes")
	fs.StringVar(&tf.screenshot, "screenshot", "", "path to a chart image")
}

// form converts the flags to FormData. Only the enumerations and the
// screenshot file can fail; prices and dates are taken as typed.
func (tf *tradeFlags) form() (journal.FormData, error) {
	dir, err := journal.ParseDirection(tf.direction)
	if err != nil {
		return journal.FormData{}, err
	}
	status, err := journal.ParseStatus(tf.status)
	if err != nil {
		return journal.FormData{}, err
	}

	f := journal.FormData{
		Date:        tf.date,
		PriceSource: tf.source,
		Timeframe:   tf.timeframe,
		Model:       tf.model,
		Direction:   dir,
		EntryPrice:  tf.entry,
		ExitPrice:   tf.exit,
		RR:          tf.rr,
		Status:      status,
		Notes:       tf.notes,
	}
	if tf.screenshot != "" {
		img, err := os.ReadFile(tf.screenshot)
		if err != nil {
			return journal.FormData{}, fmt.Errorf("read screenshot: %w", err)
		}
		f.Screenshot = img
	}
	return f, nil
}
