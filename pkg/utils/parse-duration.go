package utils

import (
	"fmt"
	"time"
)

// ParseDurationString parses values like "30m" or "12h", used for duration
// overrides coming from environment variables.
func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	return d, nil
}
