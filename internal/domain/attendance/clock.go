package attendance

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
}

// ParseClock parses a time-of-day and returns its offset from midnight.
// Full RFC3339 timestamps are accepted and reduced to their wall clock.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidClock)
	}

	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return sinceMidnight(ts), nil
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return sinceMidnight(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// FormatClock renders an offset from midnight as HH:MM:SS.
func FormatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// ClockOf formats the wall clock of t in its own location.
func ClockOf(t time.Time) string {
	return FormatClock(sinceMidnight(t))
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// WholeMinutes truncates d toward zero.
func WholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
