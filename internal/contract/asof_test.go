package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 30, 0, 0, time.UTC)

func TestParseAsOf(t *testing.T) {
	midnight := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "date", input: "2025-01-31", expected: time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 with offset", input: "2025-01-31T09:00:00+02:00", expected: time.Date(2025, time.January, 31, 7, 0, 0, 0, time.UTC)},
		{name: "plural months (mixed case)", input: "3 MoNtHs AgO", expected: midnight.AddDate(0, -3, 0)},
		{name: "singular week", input: "1 Week Ago", expected: midnight.AddDate(0, 0, -7)},
		{name: "days with padding", input: "  10 days ago ", expected: midnight.AddDate(0, 0, -10)},
		{name: "years", input: "2 years ago", expected: midnight.AddDate(-2, 0, 0)},
		{name: "zero days is today", input: "0 days ago", expected: midnight},
		{name: "missing ago", input: "2 years", expectError: true},
		{name: "hours are too fine", input: "5 hours ago", expectError: true},
		{name: "non-numeric value", input: "one year ago", expectError: true},
		{name: "us date", input: "01/31/2025", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAsOf(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// FuzzParseAsOf checks that arbitrary input never panics and that
// every accepted value is in UTC.
func FuzzParseAsOf(f *testing.F) {
	for _, seed := range []string{"2025-01-31", "1 year ago", "3 weeks ago", "0 days ago", "99999999999999999999 days ago", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		got, err := parseAsOf(input, fixedNow)
		if err == nil && got.Location() != time.UTC {
			t.Errorf("parseAsOf(%q) returned non-UTC time %v", input, got)
		}
	})
}
