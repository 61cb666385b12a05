package journal

import (
	"sort"
	"strings"
	"time"
)

// DateRange bounds a history view by calendar day, inclusive at both ends.
// A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether the instant t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	ms := t.UnixMilli()
	if !r.Start.IsZero() && ms < StartOfDay(r.Start).UnixMilli() {
		return false
	}
	if !r.End.IsZero() && ms > EndOfDay(r.End).UnixMilli() {
		return false
	}
	return true
}

// Filter returns the records whose timestamp falls inside r. The input is
// not modified and its order is kept.
func Filter(records []Record, r DateRange) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Time()) {
			out = append(out, rec)
		}
	}
	return out
}

// StartOfDay is 00:00:00.000 on t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59.999 on t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ParseDate reads a YYYY-MM-DD calendar date in loc. An empty string is the
// zero time, i.e. an open bound.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

// MonthRange spans the first to the last day of the month offset months
// away from now's month.
func MonthRange(now time.Time, offset int) DateRange {
	loc := now.Location()
	first := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, loc)
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, loc)
	return DateRange{Start: first, End: last}
}

func ThisMonth(now time.Time) DateRange {
	return MonthRange(now, 0)
}

func LastMonth(now time.Time) DateRange {
	return MonthRange(now, -1)
}

// SortNewestFirst returns a copy of records ordered by timestamp, most
// recent first. Equal timestamps keep their relative order.
func SortNewestFirst(records []Record) []Record {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
