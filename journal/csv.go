// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"id", "time", "price_source", "timeframe", "model", "direction",
	"entry_price", "exit_price", "rr", "status", "screenshot", "notes", "ai_analysis",
}

// CSVWriter streams records as CSV rows. Screenshots are reduced to a
// yes/no column to keep rows readable.
type CSVWriter struct {
	w *csv.Writer
}

func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVWriter{w: cw}, nil
}

func (c *CSVWriter) Write(r Record) error {
	shot := "no"
	if r.HasScreenshot() {
		shot = "yes"
	}
	err := c.w.Write([]string{
		r.ID,
		r.Time().Format(time.RFC3339),
		r.PriceSource,
		r.Timeframe,
		r.Model,
		string(r.Direction),
		f(r.EntryPrice),
		f(r.ExitPrice),
		f(r.RR),
		string(r.Status),
		shot,
		r.Notes,
		r.AIAnalysis,
	})
	if err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw, err := NewCSVWriter(w)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
