package fleet

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar key format used by every date index.
const DateLayout = "2006-01-02"

var parseLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// DateKey formats t as a calendar date in loc. A nil loc means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ParseTime reads a timestamp in any of the accepted layouts. Values without
// a zone are interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ParseDate normalises a caller supplied date or timestamp into a date key.
func ParseDate(s string, loc *time.Location) (string, error) {
	t, err := ParseTime(s, loc)
	if err != nil {
		return "", err
	}
	return DateKey(t, loc), nil
}
