package dataset

import (
	"strings"
	"time"
)

// dateLayouts is tried in order; the first layout that parses wins.
// Partial dates (year-month, year only) resolve to the first day of the period.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2006 Jan 2",
	"2006 January 2",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006 Jan",
	"Jan 2006",
	"January 2006",
	"2006-01",
	"2006",
}

// ParseDate parses s with a lenient mixed-format policy. It never fails
// loudly: ok is false when no layout matches or the year is implausible.
func ParseDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			if t.Year() < 1000 || t.Year() > 9999 {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}
