// journal/journal.go
package journal

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the side of a trade.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// ParseDirection accepts long/short in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

func (d Direction) Valid() bool {
	return d == Long || d == Short
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %q", string(d))
	}
	return []byte(d), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Status is the outcome of a trade.
type Status string

const (
	Win       Status = "WIN"
	Loss      Status = "LOSS"
	BreakEven Status = "BE"
)

// Statuses lists every outcome. Anything keyed by status iterates this.
func Statuses() []Status {
	return []Status{Win, Loss, BreakEven}
}

// ParseStatus accepts the stored codes and the common spellings of each
// outcome, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w":
		return Win, nil
	case "loss", "l":
		return Loss, nil
	case "be", "break_even", "break-even", "breakeven", "break even":
		return BreakEven, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) Valid() bool {
	switch s {
	case Win, Loss, BreakEven:
		return true
	}
	return false
}

// Label is the human name shown in lists and legends.
func (s Status) Label() string {
	switch s {
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	case BreakEven:
		return "Break Even"
	}
	return ""
}

// Color is the chart color for the outcome.
func (s Status) Color() string {
	switch s {
	case Win:
		return "#10B981"
	case Loss:
		return "#EF4444"
	case BreakEven:
		return "#F59E0B"
	}
	return ""
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %q", string(s))
	}
	return []byte(s), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Record is one logged trade. It is never modified after it enters a Store.
type Record struct {
	ID               string    `json:"id"`
	Timestamp        int64     `json:"timestamp"` // unix milliseconds
	PriceSource      string    `json:"priceSource"`
	Timeframe        string    `json:"timeframe"`
	Model            string    `json:"model"`
	Direction        Direction `json:"direction"`
	EntryPrice       float64   `json:"entryPrice"`
	ExitPrice        float64   `json:"exitPrice"`
	RR               float64   `json:"rr"`
	Status           Status    `json:"status"`
	ScreenshotBase64 string    `json:"screenshotBase64,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	AIAnalysis       string    `json:"aiAnalysis,omitempty"`
}

// Time returns the trade instant in the local zone.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

func (r Record) HasScreenshot() bool {
	return r.ScreenshotBase64 != ""
}

// FormData is a trade submission exactly as typed by the user.
type FormData struct {
	Date        string
	PriceSource string
	Timeframe   string
	Model       string
	Direction   Direction
	EntryPrice  string
	ExitPrice   string
	RR          string
	Status      Status
	Notes       string

	// Screenshot holds raw image bytes, nil when no chart was attached.
	Screenshot []byte
	// AIAnalysis is the critique returned before the record was built.
	AIAnalysis string
}

// Timeframes offered by the entry form.
var Timeframes = []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d"}

// DefaultModels are the entry models offered by the entry form.
var DefaultModels = []string{
	"in-out -reject dc",
	"deepzone dc",
	"deepzone cc",
	"reject new snr dc",
	"reject new snr cc",
}

// SnapshotStore persists the encoded journal as one opaque blob.
type SnapshotStore interface {
	// Load returns nil, nil when nothing has been stored yet.
	Load() ([]byte, error)
	Save(blob []byte) error
	Close() error
}
