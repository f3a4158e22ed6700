package utils

import (
	"fmt"
	"time"
)

func ParseISOTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	// Try standard RFC3339 format (ISO 8601)
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, nil
	}

	// Try with nanoseconds (e.g. 2025-10-13T09:30:00.123Z)
	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, nil
	}

	// Try fallback common formats; the remote time API reports local
	// wall time without an offset.
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, time.UTC); e == nil {
			return &tt, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}
