// Package xtime extends time.Duration parsing and formatting with day, week,
// month and year units, which are convenient in configuration files.
package xtime

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var durationRx = regexp.MustCompile(`(\d*\.\d+|\d+)[^\d.]*`)

// Extended units, in the order they're matched and formatted.
var units = []struct {
	suffixes []string
	size     time.Duration
	symbol   string
}{
	{[]string{"Y", "y"}, year, "Y"},
	{[]string{"M"}, month, "M"},
	{[]string{"w", "W"}, week, "w"},
	{[]string{"d", "D"}, day, "d"},
}

// ParseDuration parses a duration string such as "10d", "-1.5w" or "3Y4M5d".
// In addition to the units supported by time.ParseDuration it accepts "d"
// (days), "w" (weeks), "M" (30 days) and "y" (365 days). Uppercase "D", "W" and
// "Y" are also accepted.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := durationRx.FindAllString(s, -1)
	if len(parts) == 0 || strings.Join(parts, "") != s {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	for _, part := range parts {
		dur, err := parsePart(part)
		if err != nil {
			return 0, err
		}
		total += dur
	}

	if neg {
		total = -total
	}

	return total, nil
}

func parsePart(part string) (time.Duration, error) {
	for _, u := range units {
		for _, sfx := range u.suffixes {
			num, ok := strings.CutSuffix(part, sfx)
			if !ok {
				continue
			}
			// Parse the number as hours, so that fractions are supported.
			hours, err := time.ParseDuration(num + "h")
			if err != nil {
				return 0, err //nolint:wrapcheck // The stdlib error is descriptive enough.
			}
			return time.Duration(float64(hours) / float64(time.Hour) * float64(u.size)), nil
		}
	}

	return time.ParseDuration(part) //nolint:wrapcheck // The stdlib error is descriptive enough.
}

// FormatDuration formats d using the largest units possible, e.g. "10d",
// "-1w2d" or "3Y4M5d". Components smaller than round are omitted.
func FormatDuration(d, round time.Duration) string {
	if round > 0 {
		d = d.Round(round)
	}
	if d == 0 {
		return "0s"
	}

	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}

	for _, u := range units {
		if n := d / u.size; n > 0 && u.size >= round {
			fmt.Fprintf(&sb, "%d%s", n, u.symbol)
			d -= n * u.size
		}
	}

	for _, u := range []struct {
		size   time.Duration
		symbol string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
		{time.Millisecond, "ms"},
		{time.Microsecond, "µs"},
		{time.Nanosecond, "ns"},
	} {
		if n := d / u.size; n > 0 && u.size >= round {
			fmt.Fprintf(&sb, "%d%s", n, u.symbol)
			d -= n * u.size
		}
	}

	return sb.String()
}
