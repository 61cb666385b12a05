package journal

import (
	"encoding/base64"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Layouts tried, in order, when reading a user supplied trade date.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NewRecord builds a Record from form input. Malformed numbers become 0 and
// a malformed or missing date becomes the current instant; nothing is
// rejected. An unset direction or status takes the form default (Long, Win).
func NewRecord(f FormData) Record {
	return NewRecordAt(f, time.Now(), time.Local)
}

// NewRecordAt is NewRecord with an explicit clock and location for the date
// field.
func NewRecordAt(f FormData, now time.Time, loc *time.Location) Record {
	ts := ParseTimestamp(f.Date, loc, now)
	r := Record{
		ID:          id.NewAt(now),
		Timestamp:   ts.UnixMilli(),
		PriceSource: strings.TrimSpace(f.PriceSource),
		Timeframe:   strings.TrimSpace(f.Timeframe),
		Model:       strings.TrimSpace(f.Model),
		Direction:   f.Direction,
		EntryPrice:  ParseNumber(f.EntryPrice),
		ExitPrice:   ParseNumber(f.ExitPrice),
		RR:          ParseNumber(f.RR),
		Status:      f.Status,
		Notes:       f.Notes,
		AIAnalysis:  strings.TrimSpace(f.AIAnalysis),
	}
	if !r.Direction.Valid() {
		r.Direction = Long
	}
	if !r.Status.Valid() {
		r.Status = Win
	}
	if len(f.Screenshot) > 0 {
		r.ScreenshotBase64 = EncodeScreenshot(f.Screenshot)
	}
	return r
}

// ParseNumber returns the value of s, or 0 when s is empty, malformed or
// not finite.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseTimestamp reads s as a date-time in loc. A bare integer of at least
// twelve digits is taken as unix milliseconds. Anything unreadable yields now.
func ParseTimestamp(s string, loc *time.Location, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	if len(s) < 12 {
		return now
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return now
}

// EncodeScreenshot wraps raw image bytes in a data URL.
func EncodeScreenshot(img []byte) string {
	return "data:" + detectMimeType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// detectMimeType sniffs the image type, defaulting to jpeg for anything
// that is not recognisably an image.
func detectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "image/jpeg"
	}
	return contentType
}
