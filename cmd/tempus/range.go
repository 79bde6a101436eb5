package main

import (
	"fmt"
	"strings"
	"time"
)

// parseRange resolves a date-range selector into inclusive local midnights.
// An empty selector means the current month. Accepted forms:
//
//	2026-01                   whole month
//	2026-01-15                single day
//	2026-01-15..2026-02-10    inclusive range
func parseRange(selector string, now time.Time) (from, to time.Time, err error) {
	loc := now.Location()

	if selector == "" {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, -1)
		return from, to, nil
	}

	if a, b, found := strings.Cut(selector, ".."); found {
		from, err = parseDay(a, loc)
		if err != nil {
			return from, to, err
		}
		to, err = parseDay(b, loc)
		if err != nil {
			return from, to, err
		}
		if from.After(to) {
			return from, to, fmt.Errorf("invalid range %q: start is after end", selector)
		}
		return from, to, nil
	}

	if t, perr := time.ParseInLocation("2006-01", selector, loc); perr == nil {
		return t, t.AddDate(0, 1, -1), nil
	}
	if t, perr := parseDay(selector, loc); perr == nil {
		return t, t, nil
	}

	return from, to, fmt.Errorf("invalid range %q: use YYYY-MM, YYYY-MM-DD, or YYYY-MM-DD..YYYY-MM-DD", selector)
}

func parseDay(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", strings.TrimSpace(value))
	}
	return t, nil
}
