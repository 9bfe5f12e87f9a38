package query

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout parses d.M.yyyy H:m:s; single-digit components are accepted.
	DateLayout = "2.1.2006 15:4:5"
	// DisplayLayout is used when instants are rendered back to text.
	DisplayLayout = "2.1.2006 15:04:05"
)

// ParseDate parses a log or query date. Dates carry no zone and are read as UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected d.M.yyyy H:m:s: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t in DisplayLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}
