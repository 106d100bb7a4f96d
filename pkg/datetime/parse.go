// Package datetime provides month-granular date utilities.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
)

const (
	// DateTimeLayout is the month format used for loan start dates and as-of dates.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(value string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", value, err)
	}
	return t, nil
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthsBetween returns the number of whole calendar months from start to end.
// A month only counts once its day-of-month has been reached; the result is
// never negative.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*constants.MonthsPerYear + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// MonthsElapsed parses a YYYY-MM start date and returns the whole months
// elapsed until now.
func MonthsElapsed(startDate string, now time.Time) (int, error) {
	start, err := ParseMonth(startDate)
	if err != nil {
		return 0, err
	}
	return MonthsBetween(start, now), nil
}
