package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeDateRe captures "N [units] ago", e.g. "2 years ago" or "1 week ago".
var relativeDateRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// parseAsOf accepts YYYY-MM-DD, RFC3339 or a relative date like "3 months ago".
// Relative dates resolve against now and are truncated to midnight UTC.
func parseAsOf(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateFormat, DateTimeFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := parseRelativeDate(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid as-of date '%s'. Expected %s, RFC3339 or 'N months ago'", s, DateFormat)
}

// parseRelativeDate converts strings like "2 years ago" into a past date.
func parseRelativeDate(s string, now time.Time) (time.Time, error) {
	matches := relativeDateRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative date format: %s", s)
	}

	// 1: value, 2: unit
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative date value: %w", err)
	}
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch matches[2] {
	case "year":
		return day.AddDate(-value, 0, 0), nil
	case "month":
		return day.AddDate(0, -value, 0), nil
	case "week":
		return day.AddDate(0, 0, -7*value), nil
	default: // day
		return day.AddDate(0, 0, -value), nil
	}
}
