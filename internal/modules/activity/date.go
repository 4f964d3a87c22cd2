package activity

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	longDateLayout = "Monday, January 2, 2006"

	yearsBack    = 1
	yearsForward = 1
)

// ParseDate parses a YYYY-MM-DD calendar date at local noon, which keeps the
// weekday stable across time zones.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d.Add(12 * time.Hour), nil
}

// FormatDateLong turns "2025-11-16" into "Sunday, November 16, 2025".
func FormatDateLong(s string) (string, error) {
	d, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return d.Format(longDateLayout), nil
}

// dateInRange compares calendar days only: [today-1y, today+1y].
func dateInRange(s string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, s, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lo := today.AddDate(-yearsBack, 0, 0)
	hi := today.AddDate(yearsForward, 0, 0)
	return !d.Before(lo) && !d.After(hi)
}
