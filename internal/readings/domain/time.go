package readings

import (
	"errors"
	"strings"
	"time"
)

// Timestamp layouts accepted at load and when re-parsing display output.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a reading timestamp from its textual forms. Second
// precision is the contract; sub-second input is truncated by the layouts.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("readings: empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, errors.New("readings: unparseable timestamp " + value)
}
