package countdown

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MinimumDuration is the shortest countdown that can be started
const MinimumDuration = time.Minute

// maxMinutes keeps the parsed value inside time.Duration
const maxMinutes = math.MaxInt64/int64(time.Minute) - 1

// FormatError reports duration text that is not MM:SS
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid duration %q: expected MM:SS (e.g. 05:00)", e.Input)
}

// InvalidDurationError reports a well-formed duration below the minimum
type InvalidDurationError struct {
	Duration time.Duration
	Minimum  time.Duration
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("duration %s is below the minimum of %s", FormatDuration(e.Duration), FormatDuration(e.Minimum))
}

// ParseDuration parses MM:SS. Minutes are unbounded, seconds must be 0..59.
func ParseDuration(text string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: text}
	}

	minutes, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || minutes < 0 || minutes > maxMinutes {
		return 0, &FormatError{Input: text}
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, &FormatError{Input: text}
	}

	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

// ValidateDuration parses text and checks it against minimum
func ValidateDuration(text string, minimum time.Duration) (time.Duration, error) {
	d, err := ParseDuration(text)
	if err != nil {
		return 0, err
	}
	if d < minimum {
		return 0, &InvalidDurationError{Duration: d, Minimum: minimum}
	}
	return d, nil
}

// FormatDuration renders d as zero-padded MM:SS, truncating sub-second parts.
// Negative durations render as 00:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	seconds := int64((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
