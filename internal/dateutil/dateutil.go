// Package dateutil converts between instants and canonical local-date
// strings ("YYYY-MM-DD"). Every streak comparison in the app goes through
// these helpers: using UTC here would silently shift the date near midnight
// for users away from UTC, which is exactly the bug class this package
// exists to prevent.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the canonical local-date format.
const Layout = "2006-01-02"

// Format renders the year-month-day of t in the machine's local calendar.
func Format(t time.Time) string {
	return t.Local().Format(Layout)
}

// Parse converts a "YYYY-MM-DD" string to local midnight of that day.
// Inverse of Format for date-only arithmetic.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local date %q: %w", s, err)
	}
	return t, nil
}

// AddDays returns t shifted by n calendar days. AddDate handles DST
// transitions where a day is not 24 hours.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// NextDay returns the local date one calendar day after s.
// Malformed input returns "" — callers treat that as a non-adjacent date.
func NextDay(s string) string {
	t, err := Parse(s)
	if err != nil {
		return ""
	}
	return Format(AddDays(t, 1))
}

// WeekStartMonday returns the Monday-aligned start of the week containing t,
// as a local-date string. Sunday belongs to the week that began the previous
// Monday.
func WeekStartMonday(t time.Time) string {
	t = t.Local()
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return Format(AddDays(t, -offset))
}
