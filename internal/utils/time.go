package utils

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wall-clock format used for event times and
// purchase times at the API boundary.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp accepts TimestampLayout (read as UTC) or RFC 3339.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(TimestampLayout, value, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("timestamp %q does not match %q or RFC 3339", value, TimestampLayout)
}

// ParseOptionalTimestamp treats nil and blank strings as absent.
func ParseOptionalTimestamp(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatTimestamp renders t in TimestampLayout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// OptionalString trims s and returns nil when nothing is left.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
