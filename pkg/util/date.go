package util

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format used by the API and the
// storage partition layout.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// EnumerateDays returns every day from start to end inclusive, ascending.
// Returns an error when end precedes start.
func EnumerateDays(start, end time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end_date must be >= start_date")
	}
	var days []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		days = append(days, cur)
	}
	return days, nil
}

// FormatDay renders a day in the partition layout form.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
