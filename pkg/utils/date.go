package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var (
	ErrInvalidDate      = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("invalid date range")
)

func ParseDate(dateStr string) (civil.Date, error) {
	date, err := civil.ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return date, nil
}

func FormatDate(date civil.Date) string {
	return date.String()
}

// Today is the UTC calendar date of now.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now.UTC())
}

// DateRange lists every date from start to end inclusive. At most maxDays
// dates are allowed.
func DateRange(start, end civil.Date, maxDays int) ([]civil.Date, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange, end, start)
	}
	days := end.DaysSince(start) + 1
	if days > maxDays {
		return nil, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrInvalidDateRange, days, maxDays)
	}

	dates := make([]civil.Date, 0, days)
	for d := start; !d.After(end); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates, nil
}
