package utils

import (
	"testing"
	"time"
)

func TestParseDurationString(t *testing.T) {
	valid := []struct {
		input    string
		expected time.Duration
	}{
		{"1s", time.Second},
		{"30m", 30 * time.Minute},
		{"12h", 12 * time.Hour},
		{"90m", 90 * time.Minute},
		{"1500ms", 1500 * time.Millisecond},
	}
	for _, test := range valid {
		result, err := ParseDurationString(test.input)
		if err != nil {
			t.Errorf("expected no error for input %s, but got %s", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("expected %s for input %s, but got %s", test.expected, test.input, result)
		}
	}

	// no bare numbers, no day/week units
	for _, input := range []string{"", "1", "1d", "1w", "1y"} {
		if _, err := ParseDurationString(input); err == nil {
			t.Errorf("expected error for input %q, but got nil", input)
		}
	}
}
